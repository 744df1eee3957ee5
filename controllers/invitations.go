package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"salonbook-backend/models"
	"salonbook-backend/store"
	"salonbook-backend/utils"
)

type CreateInvitationInput struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=employee manager"`
}

// AcceptInvitationInput carries the new account's details. Existing users only
// need their password.
type AcceptInvitationInput struct {
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

type InvitationView struct {
	SalonName string    `json:"salonName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type InvitationController struct {
	invitations InvitationStore
	salons      SalonStore
	users       UserStore
	sender      InvitationSender
	tokens      *utils.TokenManager
	ttl         time.Duration
	frontendURL string
	now         func() time.Time
}

func NewInvitationController(invitations InvitationStore, salons SalonStore, users UserStore, sender InvitationSender, tokens *utils.TokenManager, ttl time.Duration, frontendURL string) *InvitationController {
	return &InvitationController{
		invitations: invitations,
		salons:      salons,
		users:       users,
		sender:      sender,
		tokens:      tokens,
		ttl:         ttl,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
	}
}

// CreateInvitation invites an email address to the salon's staff and mails the accept link.
func (ic *InvitationController) CreateInvitation(c *gin.Context) {
	user, salon, ok := salonAccess(c, ic.users, ic.salons, isOwner)
	if !ok {
		return
	}

	var input CreateInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate invitation token")
		return
	}

	now := ic.now()
	inv := models.Invitation{
		SalonID:     salon.ID,
		InvitedByID: user.ID,
		Email:       utils.NormalizeEmail(input.Email),
		Role:        input.Role,
		Token:       token,
		ExpiresAt:   now.Add(ic.ttl),
		Status:      models.InvitationPending,
	}
	if err := ic.invitations.CreateInvitation(c.Request.Context(), &inv, now); err != nil {
		if errors.Is(err, store.ErrConflict) {
			utils.RespondWithError(c, http.StatusConflict, "A pending invitation already exists for this email")
			return
		}
		respondStoreError(c, err, "Salon not found")
		return
	}

	if err := ic.sender.Invitation(c.Request.Context(), &inv, salon.Name, ic.link(token)); err != nil {
		logger(c).WithError(err).WithField("salon_id", salon.ID).Warn("Failed to send invitation email")
	}

	c.JSON(http.StatusCreated, inv)
}

func (ic *InvitationController) ListInvitations(c *gin.Context) {
	_, salon, ok := salonAccess(c, ic.users, ic.salons, isOwner)
	if !ok {
		return
	}
	invs, err := ic.invitations.ListInvitations(c.Request.Context(), salon.ID)
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusOK, invs)
}

// RevokeInvitation withdraws a pending invitation.
func (ic *InvitationController) RevokeInvitation(c *gin.Context) {
	_, salon, ok := salonAccess(c, ic.users, ic.salons, isOwner)
	if !ok {
		return
	}
	invID, ok := utils.ParamUUID(c, "invitationId", "invitation")
	if !ok {
		return
	}

	inv, err := ic.invitations.GetInvitation(c.Request.Context(), salon.ID, invID)
	if err != nil {
		respondStoreError(c, err, "Invitation not found")
		return
	}
	if inv.Status != models.InvitationPending {
		utils.RespondWithError(c, http.StatusBadRequest, "Only pending invitations can be revoked")
		return
	}
	if err := ic.invitations.SetInvitationStatus(c.Request.Context(), inv.ID, models.InvitationRevoked); err != nil {
		respondStoreError(c, err, "Invitation not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation revoked"})
}

// ViewInvitation is the public preview shown on the accept page.
func (ic *InvitationController) ViewInvitation(c *gin.Context) {
	inv, ok := ic.usable(c)
	if !ok {
		return
	}
	view := InvitationView{Email: inv.Email, Role: inv.Role, ExpiresAt: inv.ExpiresAt}
	if inv.Salon != nil {
		view.SalonName = inv.Salon.Name
	}
	c.JSON(http.StatusOK, view)
}

// AcceptInvitation joins the salon's staff, creating the account when the
// invited email is not registered yet.
func (ic *InvitationController) AcceptInvitation(c *gin.Context) {
	var input AcceptInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	inv, ok := ic.usable(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := ic.users.GetUserByEmail(ctx, inv.Email)
	create := errors.Is(err, store.ErrNotFound)
	switch {
	case create:
		user, ok = ic.newStaffUser(c, inv, input)
		if !ok {
			return
		}
	case err != nil:
		respondStoreError(c, err, "User not found")
		return
	default:
		if !utils.CheckPasswordHash(input.Password, user.Password) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if !user.IsActive {
			utils.RespondWithError(c, http.StatusForbidden, "Account is disabled")
			return
		}
		if user.Role == models.RoleAdmin {
			utils.RespondWithError(c, http.StatusBadRequest, "Administrators cannot join a salon")
			return
		}
		if !ic.canJoinAsStaff(c, user) {
			return
		}
	}

	salonID := inv.SalonID
	user.Role = models.RoleEmployee
	user.SalonID = &salonID
	user.StaffRole = inv.Role

	if err := ic.invitations.AcceptInvitation(ctx, inv, user, create, ic.now()); err != nil {
		if errors.Is(err, store.ErrConflict) {
			utils.RespondWithError(c, http.StatusConflict, "Invitation is no longer valid")
			return
		}
		respondStoreError(c, err, "Invitation not found")
		return
	}

	issueToken(c, ic.tokens, http.StatusOK, user)
}

// canJoinAsStaff rejects professionals and anyone still owning a salon; becoming
// an employee would hide their own salons from them.
func (ic *InvitationController) canJoinAsStaff(c *gin.Context, user *models.User) bool {
	if user.Role == models.RoleProfessional {
		utils.RespondWithError(c, http.StatusBadRequest, "Salon owners cannot join another salon as staff")
		return false
	}
	owned, err := ic.salons.ListSalons(c.Request.Context(), store.SalonFilter{OwnerID: &user.ID})
	if err != nil {
		respondStoreError(c, err, "User not found")
		return false
	}
	if len(owned) > 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Salon owners cannot join another salon as staff")
		return false
	}
	return true
}

func (ic *InvitationController) newStaffUser(c *gin.Context, inv *models.Invitation, input AcceptInvitationInput) (*models.User, bool) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Name is required")
		return nil, false
	}
	if len(input.Password) < 8 {
		utils.RespondWithError(c, http.StatusBadRequest, "Password must be at least 8 characters")
		return nil, false
	}
	phone := utils.CleanPhone(input.Phone)
	if phone != "" && !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return nil, false
	}
	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return nil, false
	}
	return &models.User{
		Email:    inv.Email,
		Password: hash,
		Name:     name,
		Phone:    phone,
		IsActive: true,
	}, true
}

// usable loads the :token invitation and rejects it unless it is pending and
// unexpired. A pending invitation found past its deadline is marked expired.
func (ic *InvitationController) usable(c *gin.Context) (*models.Invitation, bool) {
	inv, err := ic.invitations.GetInvitationByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondStoreError(c, err, "Invitation not found")
		return nil, false
	}

	now := ic.now()
	if inv.Status == models.InvitationPending && inv.Expired(now) {
		if err := ic.invitations.SetInvitationStatus(c.Request.Context(), inv.ID, models.InvitationExpired); err != nil && !errors.Is(err, store.ErrConflict) {
			logger(c).WithError(err).WithField("invitation_id", inv.ID).Warn("Failed to expire invitation")
		}
		utils.RespondWithError(c, http.StatusBadRequest, "Invitation has expired")
		return nil, false
	}
	if !inv.Usable(now) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invitation is "+inv.Status)
		return nil, false
	}
	return inv, true
}

func (ic *InvitationController) link(token string) string {
	return ic.frontendURL + "/invitations/" + token
}
