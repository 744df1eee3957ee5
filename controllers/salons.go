package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonbook-backend/models"
	"salonbook-backend/store"
	"salonbook-backend/utils"
)

type CreateSalonInput struct {
	Name         string               `json:"name" binding:"required"`
	Description  string               `json:"description"`
	Address      string               `json:"address"`
	City         string               `json:"city"`
	Category     string               `json:"category"`
	Phone        string               `json:"phone"`
	WorkingHours *models.WorkingHours `json:"workingHours"`
}

type UpdateSalonInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Category    *string `json:"category"`
	Phone       *string `json:"phone"`
}

type WorkingHoursInput struct {
	WorkingHours models.WorkingHours `json:"workingHours" binding:"required"`
}

type galleryLister interface {
	ListGallery(ctx context.Context, salonID uuid.UUID) ([]models.SalonGallery, error)
}

type SalonController struct {
	salons  SalonStore
	users   UserStore
	gallery galleryLister
	images  ImageStore
}

func NewSalonController(salons SalonStore, users UserStore, gallery galleryLister, images ImageStore) *SalonController {
	return &SalonController{salons: salons, users: users, gallery: gallery, images: images}
}

// ListSalons returns approved salons, optionally filtered by category, city and name.
func (sc *SalonController) ListSalons(c *gin.Context) {
	approved := true
	salons, err := sc.salons.ListSalons(c.Request.Context(), store.SalonFilter{
		Category: c.Query("category"),
		City:     c.Query("city"),
		Query:    c.Query("q"),
		Approved: &approved,
	})
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusOK, salons)
}

// GetSalon shows the salon with its active services and gallery. Unapproved
// salons are visible to their staff only.
func (sc *SalonController) GetSalon(c *gin.Context) {
	salonID, ok := utils.ParamUUID(c, "id", "salon")
	if !ok {
		return
	}
	salon, err := sc.salons.GetSalonDetail(c.Request.Context(), salonID)
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	if !visibleTo(c, sc.users, salon) {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}
	c.JSON(http.StatusOK, salon)
}

func (sc *SalonController) CreateSalon(c *gin.Context) {
	user, ok := currentUser(c, sc.users)
	if !ok {
		return
	}

	var input CreateSalonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	hours := models.DefaultWorkingHours()
	if input.WorkingHours != nil {
		if err := input.WorkingHours.Validate(); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid working hours: "+err.Error())
			return
		}
		hours = *input.WorkingHours
	}
	phone := utils.CleanPhone(input.Phone)
	if phone != "" && !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	salon := models.Salon{
		OwnerID:      user.ID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Address:      input.Address,
		City:         strings.TrimSpace(input.City),
		Category:     defaultString(strings.TrimSpace(input.Category), "General"),
		Phone:        phone,
		WorkingHours: hours,
	}
	if err := sc.salons.CreateSalon(c.Request.Context(), &salon); err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusCreated, salon)
}

func (sc *SalonController) UpdateSalon(c *gin.Context) {
	_, salon, ok := salonAccess(c, sc.users, sc.salons, isManager)
	if !ok {
		return
	}

	var input UpdateSalonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		salon.Name = name
	}
	if input.Description != nil {
		salon.Description = *input.Description
	}
	if input.Address != nil {
		salon.Address = *input.Address
	}
	if input.City != nil {
		salon.City = strings.TrimSpace(*input.City)
	}
	if input.Category != nil {
		salon.Category = defaultString(strings.TrimSpace(*input.Category), "General")
	}
	if input.Phone != nil {
		phone := utils.CleanPhone(*input.Phone)
		if phone != "" && !utils.ValidatePhone(phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		salon.Phone = phone
	}

	if err := sc.salons.UpdateSalon(c.Request.Context(), salon); err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusOK, salon)
}

func (sc *SalonController) UpdateWorkingHours(c *gin.Context) {
	_, salon, ok := salonAccess(c, sc.users, sc.salons, isManager)
	if !ok {
		return
	}

	var input WorkingHoursInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := input.WorkingHours.Validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid working hours: "+err.Error())
		return
	}

	salon.WorkingHours = input.WorkingHours
	if err := sc.salons.UpdateSalon(c.Request.Context(), salon); err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Working hours updated", "workingHours": salon.WorkingHours})
}

// DeleteSalon removes a salon without bookings and drops its stored gallery images.
func (sc *SalonController) DeleteSalon(c *gin.Context) {
	_, salon, ok := salonAccess(c, sc.users, sc.salons, isOwner)
	if !ok {
		return
	}

	images, err := sc.gallery.ListGallery(c.Request.Context(), salon.ID)
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}

	if err := sc.salons.DeleteSalon(c.Request.Context(), salon.ID); err != nil {
		if errors.Is(err, store.ErrConflict) {
			utils.RespondWithError(c, http.StatusConflict, "Salon has appointments and cannot be deleted")
			return
		}
		respondStoreError(c, err, "Salon not found")
		return
	}

	for _, img := range images {
		if err := sc.images.Delete(c.Request.Context(), img.StorageKey); err != nil {
			logger(c).WithError(err).WithField("salon_id", salon.ID).Warn("Failed to delete gallery object")
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Salon deleted"})
}

// MySalons lists the salons the caller owns, or the salon an employee works at.
func (sc *SalonController) MySalons(c *gin.Context) {
	user, ok := currentUser(c, sc.users)
	if !ok {
		return
	}

	if user.Role == models.RoleEmployee && user.SalonID != nil {
		salon, err := sc.salons.GetSalon(c.Request.Context(), *user.SalonID)
		if err != nil {
			respondStoreError(c, err, "Salon not found")
			return
		}
		c.JSON(http.StatusOK, []models.Salon{*salon})
		return
	}

	salons, err := sc.salons.ListSalons(c.Request.Context(), store.SalonFilter{OwnerID: &user.ID})
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusOK, salons)
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
