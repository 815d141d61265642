package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/models"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/repository"
)

const defaultPageLimit = 100

// ContactReader is the read slice of the contact repository.
type ContactReader interface {
	ListPaginated(ctx context.Context, limit, offset int) ([]models.Contact, error)
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
}

// InvoiceReader is the read slice of the invoice repository.
type InvoiceReader interface {
	ListPaginated(ctx context.Context, limit, offset int) ([]models.Invoice, error)
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)
}

// RecordsHandler serves the mirrored tables read-only.
type RecordsHandler struct {
	contacts ContactReader
	invoices InvoiceReader
	logger   logger.Logger
}

func NewRecordsHandler(contacts ContactReader, invoices InvoiceReader, log logger.Logger) *RecordsHandler {
	return &RecordsHandler{
		contacts: contacts,
		invoices: invoices,
		logger:   log,
	}
}

// pagination reads skip/limit query params. Limit defaults to 100 and is
// clamped to the repository page cap; negative skip becomes 0.
func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit <= 0 || limit > repository.MaxPageLimit {
		limit = repository.MaxPageLimit
	}

	if raw := c.Query("skip"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			offset = n
		}
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListContacts returns a page of mirrored contacts.
// GET /api/v1/contacts
func (h *RecordsHandler) ListContacts(c *gin.Context) {
	limit, offset := pagination(c)

	contacts, err := h.contacts.ListPaginated(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list contacts", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list contacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// GetContact returns one contact by local id.
// GET /api/v1/contacts/:id
func (h *RecordsHandler) GetContact(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}

	contact, err := h.contacts.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to get contact",
			logger.Int64("id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get contact"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

// ListInvoices returns a page of mirrored invoices.
// GET /api/v1/invoices
func (h *RecordsHandler) ListInvoices(c *gin.Context) {
	limit, offset := pagination(c)

	invoices, err := h.invoices.ListPaginated(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list invoices", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invoices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// GetInvoice returns one invoice by local id.
// GET /api/v1/invoices/:id
func (h *RecordsHandler) GetInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	invoice, err := h.invoices.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to get invoice",
			logger.Int64("id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get invoice"})
		return
	}

	c.JSON(http.StatusOK, invoice)
}
