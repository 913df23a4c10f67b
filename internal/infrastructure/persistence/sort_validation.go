package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction, defaulting to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the requested sort field against a whitelist.
// Unknown or empty fields fall back to defaultField so user input never
// reaches the ORDER BY clause verbatim.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// sortFields builds a whitelist from the common audit columns plus the
// entity-specific ones.
func sortFields(extra ...string) map[string]bool {
	fields := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range extra {
		fields[f] = true
	}
	return fields
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = sortFields()

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = sortFields(
	"sku", "name", "gtin", "unit", "unit_price", "status",
)

// TradingPartnerSortFields contains allowed sort fields for trading partners
var TradingPartnerSortFields = sortFields(
	"code", "name", "party_id", "currency", "status",
)

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = sortFields(
	"order_number", "direction", "order_date", "status", "total_amount",
	"confirmed_at", "transmitted_at", "acknowledged_at",
)

// InterchangeSortFields contains allowed sort fields for interchanges
var InterchangeSortFields = sortFields(
	"message_ref", "direction", "status", "payload_size", "segment_count",
)
