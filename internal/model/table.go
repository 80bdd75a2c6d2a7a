package model

import "strings"

// TableKind identifies one of the three bulk upload tables.
type TableKind int

const (
	TableProperty TableKind = iota
	TableLineItem
	TableHistory
)

// TableKinds lists the tables in archive order.
var TableKinds = []TableKind{TableProperty, TableLineItem, TableHistory}

// String returns the human name used in messages ("property", "line items", "historical").
func (k TableKind) String() string {
	switch k {
	case TableProperty:
		return "property"
	case TableLineItem:
		return "line items"
	case TableHistory:
		return "historical"
	default:
		return "unknown"
	}
}

// Field names used by the validator and partitioner.
const (
	FieldEntityID            = "EntityId"
	FieldDealName            = "DealName"
	FieldLineItemID          = "LineItemId"
	FieldLineItemDescription = "LineItemDescription"
	FieldChartOfAccount      = "redIQChartOfAccount"
	FieldIsExpenseAccount    = "IsExpenseAccount"
	FieldDate                = "Date"
	FieldIsAnnual            = "IsAnnual"
	FieldValue               = "Value"
)

// RequiredFields returns the header fields a table must carry.
func RequiredFields(kind TableKind) []string {
	switch kind {
	case TableProperty:
		return []string{FieldEntityID, FieldDealName}
	case TableLineItem:
		return []string{FieldLineItemID, FieldLineItemDescription, FieldChartOfAccount, FieldIsExpenseAccount}
	case TableHistory:
		return []string{FieldEntityID, FieldLineItemID, FieldDate, FieldIsAnnual, FieldValue}
	default:
		return nil
	}
}

// Table is a parsed TSV table: its header fields in file order plus its rows.
type Table struct {
	Fields []string
	Rows   []Row
}

// HasField reports whether the header contains name, compared case-insensitively.
func (t Table) HasField(name string) bool {
	for _, f := range t.Fields {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// MissingFields returns the entries of required absent from the header, in order.
func (t Table) MissingFields(required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasField(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Header returns the columns to write for this table: the header fields present
// in the first row, in header order, followed by any first-row fields the header
// does not know (sorted). Returns nil for an empty table.
func (t Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	first := t.Rows[0]
	seen := make(map[string]bool, len(first))
	var header []string
	for _, f := range t.Fields {
		if _, ok := first[f]; ok && !seen[f] {
			header = append(header, f)
			seen[f] = true
		}
	}
	for _, f := range first.Fields() {
		if !seen[f] {
			header = append(header, f)
		}
	}
	return header
}
