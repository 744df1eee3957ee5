package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"salonbook-backend/models"
	"salonbook-backend/utils"
)

type CreateDemoRequestInput struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	SalonName string `json:"salonName" binding:"required"`
	City      string `json:"city"`
	Message   string `json:"message" binding:"max=2000"`
}

type UpdateDemoRequestInput struct {
	Status *string `json:"status" binding:"omitempty,oneof=new contacted scheduled converted rejected"`
	Notes  *string `json:"notes"`
}

type DemoRequestController struct {
	demos DemoRequestStore
}

func NewDemoRequestController(demos DemoRequestStore) *DemoRequestController {
	return &DemoRequestController{demos: demos}
}

// CreateDemoRequest records a lead from the public site.
func (dc *DemoRequestController) CreateDemoRequest(c *gin.Context) {
	var input CreateDemoRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	phone := utils.CleanPhone(input.Phone)
	if phone != "" && !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	demo := models.DemoRequest{
		Name:      strings.TrimSpace(input.Name),
		Email:     utils.NormalizeEmail(input.Email),
		Phone:     phone,
		SalonName: strings.TrimSpace(input.SalonName),
		City:      strings.TrimSpace(input.City),
		Message:   input.Message,
		Status:    models.DemoNew,
	}
	if err := dc.demos.CreateDemoRequest(c.Request.Context(), &demo); err != nil {
		respondStoreError(c, err, "Demo request not found")
		return
	}
	c.JSON(http.StatusCreated, demo)
}

func (dc *DemoRequestController) ListDemoRequests(c *gin.Context) {
	demos, err := dc.demos.ListDemoRequests(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondStoreError(c, err, "Demo request not found")
		return
	}
	c.JSON(http.StatusOK, demos)
}

// UpdateDemoRequest moves a lead along its pipeline and keeps the admin's notes.
func (dc *DemoRequestController) UpdateDemoRequest(c *gin.Context) {
	id, ok := utils.ParamUUID(c, "id", "demo request")
	if !ok {
		return
	}

	var input UpdateDemoRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	demo, err := dc.demos.GetDemoRequest(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Demo request not found")
		return
	}

	if input.Status != nil && *input.Status != demo.Status {
		if !demo.CanTransition(*input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Cannot change demo request from "+demo.Status+" to "+*input.Status)
			return
		}
		demo.Status = *input.Status
	}
	if input.Notes != nil {
		demo.Notes = *input.Notes
	}

	if err := dc.demos.UpdateDemoRequest(c.Request.Context(), demo); err != nil {
		respondStoreError(c, err, "Demo request not found")
		return
	}
	c.JSON(http.StatusOK, demo)
}
