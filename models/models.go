package models

// All lists every table managed by AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Salon{},
		&Service{},
		&Appointment{},
		&Invoice{},
		&Invitation{},
		&SalonGallery{},
		&DemoRequest{},
		&NotificationLog{},
	}
}
