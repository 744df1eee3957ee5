package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"salonbook-backend/models"
	"salonbook-backend/store"
	"salonbook-backend/utils"
)

type userFinder interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type salonFinder interface {
	GetSalon(ctx context.Context, id uuid.UUID) (*models.Salon, error)
}

// currentUser loads the authenticated user, rejecting unknown and disabled accounts.
func currentUser(c *gin.Context, users userFinder) (*models.User, bool) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return nil, false
	}
	user, err := users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	if !user.IsActive {
		utils.RespondWithError(c, http.StatusForbidden, "Account is disabled")
		return nil, false
	}
	return user, true
}

// salonFromParam loads the salon named by the :id path parameter.
func salonFromParam(c *gin.Context, salons salonFinder) (*models.Salon, bool) {
	salonID, ok := utils.ParamUUID(c, "id", "salon")
	if !ok {
		return nil, false
	}
	salon, err := salons.GetSalon(c.Request.Context(), salonID)
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return nil, false
	}
	return salon, true
}

// publicSalon loads the :id salon for anonymous-friendly routes. Unapproved
// salons are reported as missing to everyone but their staff.
func publicSalon(c *gin.Context, users userFinder, salons salonFinder) (*models.Salon, bool) {
	salon, ok := salonFromParam(c, salons)
	if !ok {
		return nil, false
	}
	if !visibleTo(c, users, salon) {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return nil, false
	}
	return salon, true
}

func visibleTo(c *gin.Context, users userFinder, salon *models.Salon) bool {
	if salon.IsApproved {
		return true
	}
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return false
	}
	user, err := users.GetUserByID(c.Request.Context(), userID)
	return err == nil && user.IsActive && user.IsStaffOf(salon)
}

// salonAccess loads the caller and the :id salon and checks allowed.
func salonAccess(c *gin.Context, users userFinder, salons salonFinder, allowed func(*models.User, *models.Salon) bool) (*models.User, *models.Salon, bool) {
	user, ok := currentUser(c, users)
	if !ok {
		return nil, nil, false
	}
	salon, ok := salonFromParam(c, salons)
	if !ok {
		return nil, nil, false
	}
	if !allowed(user, salon) {
		utils.RespondWithError(c, http.StatusForbidden, "You do not have access to this salon")
		return nil, nil, false
	}
	return user, salon, true
}

func isStaff(u *models.User, s *models.Salon) bool   { return u.IsStaffOf(s) }
func isManager(u *models.User, s *models.Salon) bool { return u.CanManage(s) }
func isOwner(u *models.User, s *models.Salon) bool   { return u.Owns(s) }

// respondStoreError maps store sentinels onto HTTP statuses.
func respondStoreError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrSlotTaken):
		utils.RespondWithError(c, http.StatusConflict, "This time slot is already booked")
	case errors.Is(err, store.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, "The record was changed by another request")
	default:
		logger(c).WithError(err).Error("Store operation failed")
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// logger returns the request-scoped logger installed by the router, or the
// standard logger.
func logger(c *gin.Context) logrus.FieldLogger {
	if l, ok := c.Get(LoggerKey); ok {
		if fl, ok := l.(logrus.FieldLogger); ok {
			return fl
		}
	}
	return logrus.StandardLogger()
}

const LoggerKey = "logger"

func bindError(c *gin.Context, err error) {
	utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
}
