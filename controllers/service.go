// controllers/service.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"salonbook-backend/models"
	"salonbook-backend/utils"
)

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Duration    int     `json:"duration" binding:"required,min=5,max=720"` // in minutes
	Category    string  `json:"category"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Duration    *int     `json:"duration" binding:"omitempty,min=5,max=720"`
	Category    *string  `json:"category"`
	IsActive    *bool    `json:"isActive"`
}

type ServiceController struct {
	salons SalonStore
	users  UserStore
}

func NewServiceController(salons SalonStore, users UserStore) *ServiceController {
	return &ServiceController{salons: salons, users: users}
}

// GetServices lists the salon's active services
func (sc *ServiceController) GetServices(c *gin.Context) {
	salon, ok := publicSalon(c, sc.users, sc.salons)
	if !ok {
		return
	}

	services, err := sc.salons.ListServices(c.Request.Context(), salon.ID, true)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}
	c.JSON(http.StatusOK, services)
}

// CreateService creates a new service for the salon
func (sc *ServiceController) CreateService(c *gin.Context) {
	_, salon, ok := salonAccess(c, sc.users, sc.salons, isManager)
	if !ok {
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	service := models.Service{
		SalonID:     salon.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Duration:    input.Duration,
		Category:    defaultString(strings.TrimSpace(input.Category), "General"),
		IsActive:    true,
	}
	if err := sc.salons.CreateService(c.Request.Context(), &service); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}
	c.JSON(http.StatusCreated, service)
}

// UpdateService updates an existing service
func (sc *ServiceController) UpdateService(c *gin.Context) {
	_, salon, ok := salonAccess(c, sc.users, sc.salons, isManager)
	if !ok {
		return
	}
	serviceID, ok := utils.ParamUUID(c, "serviceId", "service")
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	service, err := sc.salons.GetService(c.Request.Context(), salon.ID, serviceID)
	if err != nil {
		respondStoreError(c, err, "Service not found")
		return
	}

	// Update fields if provided
	if input.Name != nil {
		service.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.Duration != nil {
		service.Duration = *input.Duration
	}
	if input.Category != nil {
		service.Category = *input.Category
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := sc.salons.UpdateService(c.Request.Context(), service); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}
	c.JSON(http.StatusOK, service)
}

// DeleteService removes a service, or deactivates it when it was already booked
func (sc *ServiceController) DeleteService(c *gin.Context) {
	_, salon, ok := salonAccess(c, sc.users, sc.salons, isManager)
	if !ok {
		return
	}
	serviceID, ok := utils.ParamUUID(c, "serviceId", "service")
	if !ok {
		return
	}

	if err := sc.salons.DeleteService(c.Request.Context(), salon.ID, serviceID); err != nil {
		respondStoreError(c, err, "Service not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
