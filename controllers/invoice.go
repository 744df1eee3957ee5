// controllers/invoice.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonbook-backend/models"
	"salonbook-backend/store"
	"salonbook-backend/utils"
)

type InvoiceController struct {
	invoices InvoiceStore
	salons   SalonStore
	users    UserStore
	now      func() time.Time
}

func NewInvoiceController(invoices InvoiceStore, salons SalonStore, users UserStore) *InvoiceController {
	return &InvoiceController{invoices: invoices, salons: salons, users: users, now: time.Now}
}

// GetInvoices lists the caller's invoices, or a salon's invoices when salonId is given
func (ic *InvoiceController) GetInvoices(c *gin.Context) {
	user, ok := currentUser(c, ic.users)
	if !ok {
		return
	}

	filter := store.InvoiceFilter{Status: c.Query("status")}
	if raw := c.Query("salonId"); raw != "" {
		salonID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid salon ID format")
			return
		}
		salon, err := ic.salons.GetSalon(c.Request.Context(), salonID)
		if err != nil {
			respondStoreError(c, err, "Salon not found")
			return
		}
		if !user.IsStaffOf(salon) {
			utils.RespondWithError(c, http.StatusForbidden, "You do not have access to this salon")
			return
		}
		filter.SalonID = &salon.ID
	} else {
		filter.UserID = &user.ID
	}

	invoices, err := ic.invoices.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	user, invoice, salon, ok := ic.load(c)
	if !ok {
		return
	}
	if invoice.UserID != user.ID && !user.IsStaffOf(salon) {
		utils.RespondWithError(c, http.StatusForbidden, "You do not have access to this invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// PayInvoice marks an unpaid invoice as paid
func (ic *InvoiceController) PayInvoice(c *gin.Context) {
	user, invoice, salon, ok := ic.load(c)
	if !ok {
		return
	}
	if !user.IsStaffOf(salon) {
		utils.RespondWithError(c, http.StatusForbidden, "Only salon staff can record payments")
		return
	}
	ic.transition(c, invoice, models.InvoicePaid)
}

// VoidInvoice cancels an unpaid invoice
func (ic *InvoiceController) VoidInvoice(c *gin.Context) {
	user, invoice, salon, ok := ic.load(c)
	if !ok {
		return
	}
	if !user.CanManage(salon) {
		utils.RespondWithError(c, http.StatusForbidden, "Only salon managers can void invoices")
		return
	}
	ic.transition(c, invoice, models.InvoiceVoid)
}

func (ic *InvoiceController) transition(c *gin.Context, invoice *models.Invoice, next string) {
	if !invoice.CanTransition(next) {
		utils.RespondWithError(c, http.StatusBadRequest, "Cannot change invoice from "+invoice.Status+" to "+next)
		return
	}

	from := invoice.Status
	invoice.Status = next
	if next == models.InvoicePaid {
		now := ic.now()
		invoice.PaidAt = &now
	}
	if err := ic.invoices.TransitionInvoice(c.Request.Context(), invoice, from); err != nil {
		respondStoreError(c, err, "Invoice not found")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (ic *InvoiceController) load(c *gin.Context) (*models.User, *models.Invoice, *models.Salon, bool) {
	user, ok := currentUser(c, ic.users)
	if !ok {
		return nil, nil, nil, false
	}
	invoiceID, ok := utils.ParamUUID(c, "id", "invoice")
	if !ok {
		return nil, nil, nil, false
	}
	invoice, err := ic.invoices.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondStoreError(c, err, "Invoice not found")
		return nil, nil, nil, false
	}
	salon, err := ic.salons.GetSalon(c.Request.Context(), invoice.SalonID)
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return nil, nil, nil, false
	}
	return user, invoice, salon, true
}
