package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bulkutil/internal/id"
	"github.com/cleared-dev/bulkutil/internal/model"
)

// Stat labels reported by Validate.
const (
	StatTotalProperties          = "Total Properties"
	StatValidProperties          = "Valid Properties"
	StatTotalLineItems           = "Total Line Items"
	StatValidLineItems           = "Valid Line Items"
	StatTotalHistory             = "Total History Entries"
	StatValidHistory             = "Valid History Entries"
	StatPropertiesWithHistory    = "Properties with History"
	StatPropertiesWithoutHistory = "Properties without History"
	StatLineItemsWithHistory     = "Line Items with History"
	StatLineItemsWithoutHistory  = "Line Items without History"
)

// StatLabels lists every stat in report order.
var StatLabels = []string{
	StatTotalProperties,
	StatValidProperties,
	StatTotalLineItems,
	StatValidLineItems,
	StatTotalHistory,
	StatValidHistory,
	StatPropertiesWithHistory,
	StatPropertiesWithoutHistory,
	StatLineItemsWithHistory,
	StatLineItemsWithoutHistory,
}

// expenseFlags is the closed set of accepted IsExpenseAccount literals.
var expenseFlags = map[string]bool{"0": true, "1": true, "true": true, "false": true}

const defaultProgressEvery = 1000

// Options tunes a Validator. The zero value is ready to use.
type Options struct {
	// Reporter receives progress per row group. Defaults to NopReporter.
	Reporter Reporter
	// ProgressEvery is the row-group size for Reporter calls.
	ProgressEvery int
	// CoverageValidRowsOnly restricts the coverage stats to history rows that
	// passed every check. By default any history row whose identifier is in
	// the valid set counts.
	CoverageValidRowsOnly bool
}

// Result holds the categorized errors and summary statistics of a run.
type Result struct {
	Errors map[Category][]string
	Stats  map[string]int
	Issues []Issue

	// ValueTotal sums the numeric Values of valid history rows.
	ValueTotal decimal.Decimal
	// NonNumericValues counts valid history rows whose Value is not a number.
	NonNumericValues int
}

// OK reports whether the dataset passed validation.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// IssueCount returns the total number of issues across categories.
func (r Result) IssueCount() int {
	return len(r.Issues)
}

// Validator checks headers, required fields, duplicate identifiers and
// cross-table references of a dataset.
type Validator struct {
	opts Options
}

// New creates a Validator.
func New(opts Options) *Validator {
	return &Validator{opts: opts.withDefaults()}
}

func (o Options) withDefaults() Options {
	if o.Reporter == nil {
		o.Reporter = NopReporter{}
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = defaultProgressEvery
	}
	return o
}

// Validate runs a Validator with default options.
func Validate(ds *model.Dataset) Result {
	return New(Options{}).Validate(ds)
}

// run carries the state of one Validate call.
type run struct {
	opts       Options
	res        *Result
	validProps *id.Index
	validItems *id.Index
}

// Validate checks ds without modifying it. Data problems never abort the run;
// they are collected into the Result.
func (v *Validator) Validate(ds *model.Dataset) Result {
	res := Result{
		Errors:     make(map[Category][]string),
		Stats:      make(map[string]int, len(StatLabels)),
		ValueTotal: decimal.Zero,
	}
	for _, label := range StatLabels {
		res.Stats[label] = 0
	}

	r := &run{
		opts:       v.opts.withDefaults(),
		res:        &res,
		validProps: id.NewIndex(len(ds.Properties())),
		validItems: id.NewIndex(len(ds.LineItems())),
	}

	r.checkHeaders(ds)
	r.checkProperties(ds.Properties())
	r.checkLineItems(ds.LineItems())
	r.checkHistory(ds.History())

	return res
}

func (r *run) add(is Issue) {
	cat := is.Kind.Category()
	r.res.Errors[cat] = append(r.res.Errors[cat], is.Message)
	r.res.Issues = append(r.res.Issues, is)
}

func (r *run) progress(table model.TableKind, total int) progress {
	return progress{r: r.opts.Reporter, every: r.opts.ProgressEvery, table: table, total: total}
}

func (r *run) checkHeaders(ds *model.Dataset) {
	labels := map[model.TableKind]string{
		model.TableProperty: "Property file",
		model.TableLineItem: "Line items file",
		model.TableHistory:  "Historical file",
	}
	for _, kind := range model.TableKinds {
		missing := ds.Table(kind).MissingFields(model.RequiredFields(kind))
		if len(missing) == 0 {
			continue
		}
		joined := strings.Join(missing, ", ")
		r.add(Issue{
			Kind:    KindMissingColumn,
			Table:   kind,
			Field:   joined,
			Message: fmt.Sprintf("%s missing fields: %s", labels[kind], joined),
		})
	}
}

func (r *run) checkProperties(rows []model.Row) {
	r.res.Stats[StatTotalProperties] = len(rows)
	seen := id.NewIndex(len(rows))
	p := r.progress(model.TableProperty, len(rows))

	for i, row := range rows {
		n := i + 1
		r.checkProperty(row, n, seen)
		p.tick(n)
	}
	r.res.Stats[StatValidProperties] = r.validProps.Len()
}

func (r *run) checkProperty(row model.Row, n int, seen *id.Index) {
	eid := row.Get(model.FieldEntityID)
	if id.Absent(eid) {
		r.add(Issue{
			Kind:    KindMissingData,
			Table:   model.TableProperty,
			Row:     n,
			Field:   model.FieldEntityID,
			Message: fmt.Sprintf("Property row %d missing EntityId", n),
		})
		return
	}
	if !seen.Add(eid, n) {
		first, _ := seen.Position(eid)
		r.add(Issue{
			Kind:    KindDuplicateIdentifier,
			Table:   model.TableProperty,
			Row:     n,
			Field:   model.FieldEntityID,
			Value:   eid,
			Message: fmt.Sprintf("Duplicate EntityId %s (property row %d, first seen in row %d)", eid, n, first),
		})
		return
	}
	if row.Blank(model.FieldDealName) {
		r.add(Issue{
			Kind:    KindMissingData,
			Table:   model.TableProperty,
			Row:     n,
			Field:   model.FieldDealName,
			Message: fmt.Sprintf("Property %s missing DealName", eid),
		})
		return
	}
	r.validProps.Add(eid, n)
}

func (r *run) checkLineItems(rows []model.Row) {
	r.res.Stats[StatTotalLineItems] = len(rows)
	seen := id.NewIndex(len(rows))
	p := r.progress(model.TableLineItem, len(rows))

	for i, row := range rows {
		n := i + 1
		r.checkLineItem(row, n, seen)
		p.tick(n)
	}
	r.res.Stats[StatValidLineItems] = r.validItems.Len()
}

func (r *run) checkLineItem(row model.Row, n int, seen *id.Index) {
	lid := row.Get(model.FieldLineItemID)
	if id.Absent(lid) {
		r.add(Issue{
			Kind:    KindMissingData,
			Table:   model.TableLineItem,
			Row:     n,
			Field:   model.FieldLineItemID,
			Message: fmt.Sprintf("Line item row %d missing LineItemId", n),
		})
		return
	}
	if !seen.Add(lid, n) {
		first, _ := seen.Position(lid)
		r.add(Issue{
			Kind:    KindDuplicateIdentifier,
			Table:   model.TableLineItem,
			Row:     n,
			Field:   model.FieldLineItemID,
			Value:   lid,
			Message: fmt.Sprintf("Duplicate LineItemId %s (line item row %d, first seen in row %d)", lid, n, first),
		})
		return
	}

	valid := true
	for _, field := range []string{model.FieldLineItemDescription, model.FieldChartOfAccount} {
		if row.Blank(field) {
			valid = false
			r.add(Issue{
				Kind:    KindMissingData,
				Table:   model.TableLineItem,
				Row:     n,
				Field:   field,
				Message: fmt.Sprintf("Line item %s missing %s", lid, field),
			})
		}
	}

	flag := row.Get(model.FieldIsExpenseAccount)
	switch {
	case flag == "":
		valid = false
		r.add(Issue{
			Kind:    KindMissingData,
			Table:   model.TableLineItem,
			Row:     n,
			Field:   model.FieldIsExpenseAccount,
			Message: fmt.Sprintf("Line item %s missing IsExpenseAccount", lid),
		})
	case !expenseFlags[flag]:
		valid = false
		r.add(Issue{
			Kind:    KindInvalidFieldValue,
			Table:   model.TableLineItem,
			Row:     n,
			Field:   model.FieldIsExpenseAccount,
			Value:   flag,
			Message: fmt.Sprintf("Line item %s invalid IsExpenseAccount %q", lid, flag),
		})
	}

	if valid {
		r.validItems.Add(lid, n)
	}
}

type historyKey struct {
	entity   id.Key
	lineItem id.Key
	date     string
	isAnnual string
}

var historyRequired = model.RequiredFields(model.TableHistory)

func (r *run) checkHistory(rows []model.Row) {
	r.res.Stats[StatTotalHistory] = len(rows)
	seen := make(map[historyKey]int, len(rows))
	propHits := make(map[id.Key]int)
	itemHits := make(map[id.Key]int)
	p := r.progress(model.TableHistory, len(rows))

	for i, row := range rows {
		n := i + 1
		eKey, _ := id.Normalize(row.Get(model.FieldEntityID))
		lKey, _ := id.Normalize(row.Get(model.FieldLineItemID))

		valid := r.checkHistoryRow(row, n, eKey, lKey, seen)
		if valid {
			r.res.Stats[StatValidHistory]++
			r.addValue(row.Get(model.FieldValue))
		}
		if valid || !r.opts.CoverageValidRowsOnly {
			if r.validProps.Has(eKey) {
				propHits[eKey]++
			}
			if r.validItems.Has(lKey) {
				itemHits[lKey]++
			}
		}
		p.tick(n)
	}

	with, without := coverage(r.validProps, propHits)
	r.res.Stats[StatPropertiesWithHistory] = with
	r.res.Stats[StatPropertiesWithoutHistory] = without
	with, without = coverage(r.validItems, itemHits)
	r.res.Stats[StatLineItemsWithHistory] = with
	r.res.Stats[StatLineItemsWithoutHistory] = without
}

func (r *run) checkHistoryRow(row model.Row, n int, eKey, lKey id.Key, seen map[historyKey]int) bool {
	var missing []string
	for _, field := range historyRequired {
		if row.Blank(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		joined := strings.Join(missing, ", ")
		r.add(Issue{
			Kind:    KindMissingData,
			Table:   model.TableHistory,
			Row:     n,
			Field:   joined,
			Message: fmt.Sprintf("History row %d missing %s", n, joined),
		})
		return false
	}

	eid := row.Get(model.FieldEntityID)
	lid := row.Get(model.FieldLineItemID)
	date := row.Get(model.FieldDate)
	annual := row.Get(model.FieldIsAnnual)

	key := historyKey{entity: eKey, lineItem: lKey, date: date, isAnnual: annual}
	if first, dup := seen[key]; dup {
		r.add(Issue{
			Kind:  KindDuplicateHistoryRow,
			Table: model.TableHistory,
			Row:   n,
			Message: fmt.Sprintf("Duplicate history row %d (EntityId=%s, LineItemId=%s, Date=%s, IsAnnual=%s), first seen in row %d",
				n, eid, lid, date, annual, first),
		})
		return false
	}
	seen[key] = n

	if !r.validProps.Has(eKey) {
		r.add(Issue{
			Kind:    KindInvalidReference,
			Table:   model.TableHistory,
			Row:     n,
			Field:   model.FieldEntityID,
			Value:   eid,
			Message: fmt.Sprintf("History row %d references unknown EntityId %s", n, eid),
		})
		return false
	}
	if !r.validItems.Has(lKey) {
		r.add(Issue{
			Kind:    KindInvalidReference,
			Table:   model.TableHistory,
			Row:     n,
			Field:   model.FieldLineItemID,
			Value:   lid,
			Message: fmt.Sprintf("History row %d references unknown LineItemId %s", n, lid),
		})
		return false
	}
	return true
}

func (r *run) addValue(raw string) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		r.res.NonNumericValues++
		return
	}
	r.res.ValueTotal = r.res.ValueTotal.Add(d)
}

func coverage(valid *id.Index, hits map[id.Key]int) (with, without int) {
	for _, k := range valid.Keys() {
		if hits[k] > 0 {
			with++
		} else {
			without++
		}
	}
	return with, without
}
