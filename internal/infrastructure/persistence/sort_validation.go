package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// TicketSortFields contains allowed sort fields for ticket automations
var TicketSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"customer":     true,
	"status":       true,
	"total_amount": true,
	"submitted_at": true,
}

// QuotationSortFields contains allowed sort fields for ledger quotations
var QuotationSortFields = map[string]bool{
	"name":             true,
	"transaction_date": true,
	"grand_total":      true,
	"created_at":       true,
}
