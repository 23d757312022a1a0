package handler

import (
	"context"
	"fmt"
	"net/http"

	ticketapp "github.com/erp/ticketing/internal/application/ticket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TicketService is the ticket lifecycle used by TicketAutomationHandler
type TicketService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req ticketapp.CreateTicketAutomationRequest) (*ticketapp.TicketAutomationResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ticketapp.TicketAutomationResponse, error)
	GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*ticketapp.TicketAutomationResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ticketapp.TicketListFilter) ([]ticketapp.TicketAutomationListItemResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req ticketapp.UpdateTicketAutomationRequest) (*ticketapp.TicketAutomationResponse, error)
	RefreshQuotations(ctx context.Context, tenantID, id uuid.UUID) (*ticketapp.TicketAutomationResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Submit(ctx context.Context, tenantID, id uuid.UUID) (*ticketapp.SubmitTicketAutomationResponse, error)
}

// TicketPrinter renders and archives tickets
type TicketPrinter interface {
	Print(ctx context.Context, tenantID, id uuid.UUID, format string) (*ticketapp.PrintResult, error)
	Archive(ctx context.Context, tenantID, id uuid.UUID) (string, error)
}

var (
	_ TicketService = (*ticketapp.TicketService)(nil)
	_ TicketPrinter = (*ticketapp.PrintService)(nil)
)

// ArchiveURLHeader carries the presigned link of an archived ticket PDF
const ArchiveURLHeader = "X-Archive-URL"

// TicketAutomationHandler handles ticket automation endpoints
type TicketAutomationHandler struct {
	BaseHandler
	tickets TicketService
	printer TicketPrinter
}

// NewTicketAutomationHandler creates a TicketAutomationHandler. printer may be nil,
// in which case the print and archive routes answer 503.
func NewTicketAutomationHandler(tickets TicketService, printer TicketPrinter) *TicketAutomationHandler {
	return &TicketAutomationHandler{tickets: tickets, printer: printer}
}

// ArchiveResponse is the result of archiving a ticket PDF
type ArchiveResponse struct {
	URL string `json:"url"`
}

// tenantAndID resolves the tenant and :id or answers the request itself
func (h *TicketAutomationHandler) tenantAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant identification required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, id, true
}

// Create godoc
// @ID           createTicketAutomation
// @Summary      Create a ticket automation
// @Description  Creates a draft ticket. When customer is set and no rows are given, the customer's draft quotations are fetched.
// @Tags         ticket-automations
// @Accept       json
// @Produce      json
// @Param        request body ticketapp.CreateTicketAutomationRequest true "Ticket"
// @Success      201 {object} APIResponse[ticketapp.TicketAutomationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ticket-automations [post]
func (h *TicketAutomationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant identification required")
		return
	}

	var req ticketapp.CreateTicketAutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}

// List godoc
// @ID           listTicketAutomations
// @Summary      List ticket automations
// @Tags         ticket-automations
// @Produce      json
// @Param        search    query string false "Name, customer or invoice reference"
// @Param        customer  query string false "Customer"
// @Param        company   query string false "Company"
// @Param        status    query string false "draft or submitted"
// @Param        page      query int    false "Page" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        order_by  query string false "Sort field" default(updated_at)
// @Param        order_dir query string false "asc or desc" default(desc)
// @Success      200 {object} APIResponse[[]ticketapp.TicketAutomationListItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ticket-automations [get]
func (h *TicketAutomationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant identification required")
		return
	}

	var filter ticketapp.TicketListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	items, total, err := h.tickets.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getTicketAutomation
// @Summary      Get a ticket automation
// @Tags         ticket-automations
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Success      200 {object} APIResponse[ticketapp.TicketAutomationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ticket-automations/{id} [get]
func (h *TicketAutomationHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	ticket, err := h.tickets.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// GetByName godoc
// @ID           getTicketAutomationByName
// @Summary      Get a ticket automation by its document name
// @Tags         ticket-automations
// @Produce      json
// @Param        name path string true "Document name, e.g. Acme-1"
// @Success      200 {object} APIResponse[ticketapp.TicketAutomationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ticket-automations/by-name/{name} [get]
func (h *TicketAutomationHandler) GetByName(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant identification required")
		return
	}
	ticket, err := h.tickets.GetByName(c.Request.Context(), tenantID, c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// Update godoc
// @ID           updateTicketAutomation
// @Summary      Update a draft ticket automation
// @Description  Changing the customer clears and refetches the quotation rows. Submitted tickets are read only.
// @Tags         ticket-automations
// @Accept       json
// @Produce      json
// @Param        id      path string true "Ticket ID" format(uuid)
// @Param        request body ticketapp.UpdateTicketAutomationRequest true "Changes"
// @Success      200 {object} APIResponse[ticketapp.TicketAutomationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ticket-automations/{id} [put]
func (h *TicketAutomationHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	var req ticketapp.UpdateTicketAutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ticket, err := h.tickets.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// RefreshQuotations godoc
// @ID           refreshTicketQuotations
// @Summary      Refetch the customer's draft quotations
// @Tags         ticket-automations
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Success      200 {object} APIResponse[ticketapp.TicketAutomationResponse]
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ticket-automations/{id}/refresh-quotations [post]
func (h *TicketAutomationHandler) RefreshQuotations(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	ticket, err := h.tickets.RefreshQuotations(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// Delete godoc
// @ID           deleteTicketAutomation
// @Summary      Delete a draft ticket automation
// @Tags         ticket-automations
// @Param        id path string true "Ticket ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ticket-automations/{id} [delete]
func (h *TicketAutomationHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.tickets.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Submit godoc
// @ID           submitTicketAutomation
// @Summary      Submit a ticket and run the sales cycle
// @Description  Submits every draft quotation, creates one sales order and, when amounts are due, a payment entry.
// @Tags         ticket-automations
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Success      200 {object} APIResponse[ticketapp.SubmitTicketAutomationResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ticket-automations/{id}/submit [post]
func (h *TicketAutomationHandler) Submit(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	result, err := h.tickets.Submit(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Print godoc
// @ID           printTicketAutomation
// @Summary      Render a ticket
// @Description  Returns the print format as HTML or PDF. A submitted ticket's PDF carries X-Archive-URL.
// @Tags         ticket-automations
// @Produce      html
// @Produce      application/pdf
// @Param        id     path  string true  "Ticket ID" format(uuid)
// @Param        format query string false "html or pdf" default(html)
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ticket-automations/{id}/print [get]
func (h *TicketAutomationHandler) Print(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if h.printer == nil {
		h.HandleError(c, errRendererUnavailable)
		return
	}

	result, err := h.printer.Print(c.Request.Context(), tenantID, id, c.DefaultQuery("format", ticketapp.PrintFormatHTML))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.ArchiveURL != "" {
		c.Header(ArchiveURLHeader, result.ArchiveURL)
	}
	disposition := "inline"
	if c.Query("download") == "1" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// Archive godoc
// @ID           archiveTicketAutomation
// @Summary      Archive a submitted ticket's PDF
// @Description  Renders the PDF, stores it in object storage and returns a presigned download link.
// @Tags         ticket-automations
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Success      200 {object} APIResponse[ArchiveResponse]
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ticket-automations/{id}/archive [post]
func (h *TicketAutomationHandler) Archive(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if h.printer == nil {
		h.HandleError(c, errRendererUnavailable)
		return
	}

	url, err := h.printer.Archive(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ArchiveResponse{URL: url})
}
