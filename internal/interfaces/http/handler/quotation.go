package handler

import (
	"context"

	ticketapp "github.com/erp/ticketing/internal/application/ticket"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errRendererUnavailable = shared.NewDomainError("RENDERER_UNAVAILABLE", "Ticket printing is not configured")

// QuotationLookup lists a customer's draft quotations
type QuotationLookup interface {
	ListDraftQuotations(ctx context.Context, tenantID uuid.UUID, customer string) ([]ticketapp.QuotationSummaryResponse, error)
}

var _ QuotationLookup = (*ticketapp.TicketService)(nil)

// QuotationHandler serves the draft quotation lookup used by the ticket form
type QuotationHandler struct {
	BaseHandler
	lookup QuotationLookup
}

// NewQuotationHandler creates a QuotationHandler
func NewQuotationHandler(lookup QuotationLookup) *QuotationHandler {
	return &QuotationHandler{lookup: lookup}
}

// ListDrafts godoc
// @ID           listDraftQuotations
// @Summary      List a customer's draft quotations
// @Description  Same query the ticket form runs when the customer changes: docstatus 0, status Draft, newest first.
// @Tags         quotations
// @Produce      json
// @Param        customer query string true "Customer"
// @Success      200 {object} APIResponse[[]ticketapp.QuotationSummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations [get]
func (h *QuotationHandler) ListDrafts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant identification required")
		return
	}
	list, err := h.lookup.ListDraftQuotations(c.Request.Context(), tenantID, c.Query("customer"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}
