package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonbook-backend/models"
	"salonbook-backend/store"
	"salonbook-backend/utils"
)

type ApproveSalonInput struct {
	Approved *bool `json:"approved" binding:"required"`
}

type ValidateSalonInput struct {
	Validated *bool `json:"validated" binding:"required"`
}

// AdminUpdateUserInput cannot make someone an employee; that only happens by
// accepting an invitation.
type AdminUpdateUserInput struct {
	Role     *string `json:"role" binding:"omitempty,oneof=client professional admin"`
	IsActive *bool   `json:"isActive"`
}

type AdminController struct {
	salons  SalonStore
	users   UserStore
	reports ReportStore
}

func NewAdminController(salons SalonStore, users UserStore, reports ReportStore) *AdminController {
	return &AdminController{salons: salons, users: users, reports: reports}
}

func (ac *AdminController) Stats(c *gin.Context) {
	stats, err := ac.reports.AdminStats(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "Not found")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListSalons returns every salon, or only pending/approved ones when status is set.
func (ac *AdminController) ListSalons(c *gin.Context) {
	filter := store.SalonFilter{Query: c.Query("q")}
	switch c.Query("status") {
	case "":
	case "pending":
		approved := false
		filter.Approved = &approved
	case "approved":
		approved := true
		filter.Approved = &approved
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "status must be pending or approved")
		return
	}

	salons, err := ac.salons.ListSalons(c.Request.Context(), filter)
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusOK, salons)
}

func (ac *AdminController) ApproveSalon(c *gin.Context) {
	var input ApproveSalonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	ac.updateSalon(c, func(s *models.Salon) { s.IsApproved = *input.Approved })
}

func (ac *AdminController) ValidateSalon(c *gin.Context) {
	var input ValidateSalonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	ac.updateSalon(c, func(s *models.Salon) { s.IsValidated = *input.Validated })
}

func (ac *AdminController) updateSalon(c *gin.Context, apply func(*models.Salon)) {
	salon, ok := salonFromParam(c, ac.salons)
	if !ok {
		return
	}
	apply(salon)
	if err := ac.salons.UpdateSalon(c.Request.Context(), salon); err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusOK, salon)
}

func (ac *AdminController) ListUsers(c *gin.Context) {
	users, err := ac.users.ListUsers(c.Request.Context(), store.UserFilter{Role: c.Query("role")})
	if err != nil {
		respondStoreError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser changes a user's role or active flag. Admins cannot lock themselves out.
func (ac *AdminController) UpdateUser(c *gin.Context) {
	admin, ok := currentUser(c, ac.users)
	if !ok {
		return
	}
	userID, ok := utils.ParamUUID(c, "id", "user")
	if !ok {
		return
	}

	var input AdminUpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if userID == admin.ID {
		if input.Role != nil && *input.Role != models.RoleAdmin {
			utils.RespondWithError(c, http.StatusBadRequest, "You cannot change your own role")
			return
		}
		if input.IsActive != nil && !*input.IsActive {
			utils.RespondWithError(c, http.StatusBadRequest, "You cannot deactivate your own account")
			return
		}
	}

	user, err := ac.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondStoreError(c, err, "User not found")
		return
	}

	if input.Role != nil && *input.Role != user.Role {
		user.Role = *input.Role
		user.SalonID = nil
		user.StaffRole = ""
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := ac.users.UpdateUser(c.Request.Context(), user); err != nil {
		respondStoreError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}
