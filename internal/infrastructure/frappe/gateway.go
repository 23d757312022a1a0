package frappe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Method paths used by the gateway
const (
	methodSubmit   = "frappe.client.submit"
	methodGetValue = "frappe.client.get_value"
)

// Gateway implements sales.Gateway against a Frappe site
type Gateway struct {
	config     *Config
	httpClient *http.Client

	// tenantConfigs routes tenants to their own site; others use config
	tenantConfigs map[uuid.UUID]*Config
	mu            sync.RWMutex
}

// NewGateway creates a gateway for the default site
func NewGateway(config *Config) (*Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Gateway{
		config:        config,
		httpClient:    &http.Client{Timeout: config.Timeout},
		tenantConfigs: make(map[uuid.UUID]*Config),
	}, nil
}

// SetTenantConfig routes a tenant to its own site
func (g *Gateway) SetTenantConfig(tenantID uuid.UUID, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tenantConfigs[tenantID] = config
	return nil
}

func (g *Gateway) getTenantConfig(tenantID uuid.UUID) *Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if cfg, ok := g.tenantConfigs[tenantID]; ok {
		return cfg
	}
	return g.config
}

// ListQuotations runs GET /api/resource/Quotation with the party and status filters
func (g *Gateway) ListQuotations(ctx context.Context, tenantID uuid.UUID, filter sales.QuotationFilter) ([]sales.QuotationSummary, error) {
	filters := map[string]string{"party_name": filter.PartyName}
	if filter.Status != "" {
		filters["status"] = filter.Status
	}
	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("frappe: failed to marshal filters: %w", err)
	}
	fieldsJSON, err := json.Marshal(sales.QuotationListFields)
	if err != nil {
		return nil, fmt.Errorf("frappe: failed to marshal fields: %w", err)
	}

	query := url.Values{}
	query.Set("filters", string(filtersJSON))
	query.Set("fields", string(fieldsJSON))
	query.Set("limit_page_length", "0")

	var items []quotationListItem
	if err := g.do(ctx, tenantID, http.MethodGet, resourcePath(sales.DoctypeQuotation, ""), query, nil, &items); err != nil {
		return nil, err
	}

	summaries := make([]sales.QuotationSummary, len(items))
	for i, item := range items {
		summaries[i] = item.toSummary()
	}
	return summaries, nil
}

// GetQuotation loads a quotation document with its items
func (g *Gateway) GetQuotation(ctx context.Context, tenantID uuid.UUID, name string) (*sales.Quotation, error) {
	var doc quotationDoc
	if err := g.do(ctx, tenantID, http.MethodGet, resourcePath(sales.DoctypeQuotation, name), nil, nil, &doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// SubmitQuotation fetches the full document and submits it through frappe.client.submit
func (g *Gateway) SubmitQuotation(ctx context.Context, tenantID uuid.UUID, name string) error {
	var doc map[string]any
	if err := g.do(ctx, tenantID, http.MethodGet, resourcePath(sales.DoctypeQuotation, name), nil, nil, &doc); err != nil {
		return err
	}
	_, err := g.submit(ctx, tenantID, doc)
	return err
}

// CreateSalesOrder inserts the order then submits it
func (g *Gateway) CreateSalesOrder(ctx context.Context, tenantID uuid.UUID, order *sales.SalesOrder) (string, error) {
	name, err := g.insertAndSubmit(ctx, tenantID, sales.DoctypeSalesOrder, newSalesOrderDoc(order))
	if err != nil {
		return "", err
	}
	order.Name = name
	order.DocStatus = sales.DocStatusSubmitted
	return name, nil
}

// DefaultAccount reads Mode of Payment Account.default_account for the company
func (g *Gateway) DefaultAccount(ctx context.Context, tenantID uuid.UUID, modeOfPayment, company string) (string, error) {
	filtersJSON, err := json.Marshal(map[string]string{"parent": modeOfPayment, "company": company})
	if err != nil {
		return "", fmt.Errorf("frappe: failed to marshal filters: %w", err)
	}

	query := url.Values{}
	query.Set("doctype", "Mode of Payment Account")
	query.Set("parent", "Mode of Payment")
	query.Set("filters", string(filtersJSON))
	query.Set("fieldname", "default_account")

	var value struct {
		DefaultAccount string `json:"default_account"`
	}
	if err := g.do(ctx, tenantID, http.MethodGet, methodPath(methodGetValue), query, nil, &value); err != nil {
		return "", err
	}
	return value.DefaultAccount, nil
}

// CreatePaymentEntry inserts the entry then submits it
func (g *Gateway) CreatePaymentEntry(ctx context.Context, tenantID uuid.UUID, entry *sales.PaymentEntry) (string, error) {
	name, err := g.insertAndSubmit(ctx, tenantID, sales.DoctypePaymentEntry, newPaymentEntryDoc(entry))
	if err != nil {
		return "", err
	}
	entry.Name = name
	entry.DocStatus = sales.DocStatusSubmitted
	return name, nil
}

func (g *Gateway) insertAndSubmit(ctx context.Context, tenantID uuid.UUID, doctype string, doc any) (string, error) {
	var inserted map[string]any
	if err := g.do(ctx, tenantID, http.MethodPost, resourcePath(doctype, ""), nil, doc, &inserted); err != nil {
		return "", err
	}
	return g.submit(ctx, tenantID, inserted)
}

func (g *Gateway) submit(ctx context.Context, tenantID uuid.UUID, doc map[string]any) (string, error) {
	var submitted namedDoc
	if err := g.do(ctx, tenantID, http.MethodPost, methodPath(methodSubmit), nil, map[string]any{"doc": doc}, &submitted); err != nil {
		return "", err
	}
	return submitted.Name, nil
}

// do performs a request and decodes the "data" or "message" member of the envelope into out
func (g *Gateway) do(ctx context.Context, tenantID uuid.UUID, method, path string, query url.Values, body, out any) error {
	cfg := g.getTenantConfig(tenantID)

	ctx, span := telemetry.StartSpan(ctx, "frappe "+method+" "+path,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("http.request.method", method),
		telemetry.WithAttribute("url.path", path),
	)
	defer span.End()

	endpoint := cfg.baseURL() + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("frappe: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("frappe: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", cfg.AuthorizationHeader())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("frappe: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("frappe: failed to read response: %w", err)
	}
	telemetry.SetAttributes(span, "http.response.status_code", resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		rerr := parseRemoteError(resp.StatusCode, respBody)
		telemetry.RecordError(span, rerr)
		return rerr
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("frappe: failed to decode response: %w", err)
	}
	payload := env.Data
	if len(payload) == 0 || string(payload) == "null" {
		payload = env.Message
	}
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("frappe: failed to decode payload: %w", err)
	}
	return nil
}

func resourcePath(doctype, name string) string {
	path := "/api/resource/" + url.PathEscape(doctype)
	if name != "" {
		path += "/" + url.PathEscape(name)
	}
	return path
}

func methodPath(method string) string {
	return "/api/method/" + method
}

// Ensure Gateway implements sales.Gateway
var _ sales.Gateway = (*Gateway)(nil)
