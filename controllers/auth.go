// controllers/auth.go
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

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"omitempty,oneof=client professional"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateMeInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

type AuthController struct {
	users  UserStore
	tokens *utils.TokenManager
	now    func() time.Time
}

func NewAuthController(users UserStore, tokens *utils.TokenManager) *AuthController {
	return &AuthController{users: users, tokens: tokens, now: time.Now}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	email := utils.NormalizeEmail(input.Email)
	phone := utils.CleanPhone(input.Phone)
	if phone != "" && !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	_, err := ac.users.GetUserByEmail(c.Request.Context(), email)
	if err == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondStoreError(c, err, "User not found")
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleClient
	}
	newUser := models.User{
		Email:    email,
		Password: hash,
		Name:     strings.TrimSpace(input.Name),
		Phone:    phone,
		Role:     role,
		IsActive: true,
	}
	if err := ac.users.CreateUser(c.Request.Context(), &newUser); err != nil {
		if errors.Is(err, store.ErrConflict) {
			utils.RespondWithError(c, http.StatusBadRequest, "Email already registered")
			return
		}
		respondStoreError(c, err, "User not found")
		return
	}

	issueToken(c, ac.tokens, http.StatusCreated, &newUser)
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := ac.users.GetUserByEmail(c.Request.Context(), utils.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			respondStoreError(c, err, "User not found")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		utils.RespondWithError(c, http.StatusForbidden, "Account is disabled")
		return
	}

	now := ac.now()
	if err := ac.users.RecordLogin(c.Request.Context(), user.ID, now); err != nil {
		logger(c).WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}
	user.LastLogin = &now

	issueToken(c, ac.tokens, http.StatusOK, user)
}

func (ac *AuthController) Logout(c *gin.Context) {
	utils.ClearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	user, ok := currentUser(c, ac.users)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ac *AuthController) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c, ac.users)
	if !ok {
		return
	}

	var input UpdateMeInput
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
		user.Name = name
	}
	if input.Phone != nil {
		phone := utils.CleanPhone(*input.Phone)
		if phone != "" && !utils.ValidatePhone(phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		user.Phone = phone
	}

	if err := ac.users.UpdateUser(c.Request.Context(), user); err != nil {
		respondStoreError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c, ac.users)
	if !ok {
		return
	}

	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		utils.RespondWithError(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	user.Password = hash
	if err := ac.users.UpdateUser(c.Request.Context(), user); err != nil {
		respondStoreError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// issueToken signs a token for user, sets the auth cookie and writes {token, user}.
func issueToken(c *gin.Context, tokens *utils.TokenManager, status int, user *models.User) {
	token, err := tokens.Generate(user.ID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	tokens.SetAuthCookie(c, token)
	c.JSON(status, gin.H{
		"token": token,
		"user":  user,
	})
}
