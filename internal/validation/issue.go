package validation

import (
	"fmt"

	"github.com/cleared-dev/bulkutil/internal/model"
)

// Kind classifies a validation issue.
type Kind int

const (
	KindMissingColumn Kind = iota + 1
	KindMissingData
	KindDuplicateIdentifier
	KindInvalidFieldValue
	KindDuplicateHistoryRow
	KindInvalidReference
)

// Category is the report heading an issue is listed under.
type Category string

const (
	CategoryMissingColumns    Category = "Missing Columns"
	CategoryMissingData       Category = "Missing Data"
	CategoryDuplicateIDs      Category = "Duplicate IDs"
	CategoryInvalidData       Category = "Invalid Data"
	CategoryDuplicateHistory  Category = "Duplicate History"
	CategoryInvalidReferences Category = "Invalid References"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryMissingColumns,
	CategoryMissingData,
	CategoryDuplicateIDs,
	CategoryInvalidData,
	CategoryDuplicateHistory,
	CategoryInvalidReferences,
}

// Category returns the report category for k.
func (k Kind) Category() Category {
	switch k {
	case KindMissingColumn:
		return CategoryMissingColumns
	case KindMissingData:
		return CategoryMissingData
	case KindDuplicateIdentifier:
		return CategoryDuplicateIDs
	case KindInvalidFieldValue:
		return CategoryInvalidData
	case KindDuplicateHistoryRow:
		return CategoryDuplicateHistory
	case KindInvalidReference:
		return CategoryInvalidReferences
	default:
		return "Other"
	}
}

func (k Kind) String() string {
	switch k {
	case KindMissingColumn:
		return "MissingColumn"
	case KindMissingData:
		return "MissingData"
	case KindDuplicateIdentifier:
		return "DuplicateIdentifier"
	case KindInvalidFieldValue:
		return "InvalidFieldValue"
	case KindDuplicateHistoryRow:
		return "DuplicateHistoryRow"
	case KindInvalidReference:
		return "InvalidReference"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Issue describes a single row- or header-level problem.
type Issue struct {
	Kind    Kind
	Table   model.TableKind
	Row     int    // 1-based data row; 0 for header issues
	Field   string // offending field(s), comma-joined when several
	Value   string // offending value, if any
	Message string
}

func (e Issue) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Category(), e.Message)
}
