package model

// Dataset holds the three related bulk upload tables. It performs no validation
// at construction; use the validation package for that.
type Dataset struct {
	tables [3]Table
}

// NewDataset builds a Dataset from already-parsed tables. The row slices are
// copied so later appends by the caller do not leak into the dataset.
func NewDataset(properties, lineItems, history Table) *Dataset {
	return &Dataset{tables: [3]Table{
		cloneTable(properties),
		cloneTable(lineItems),
		cloneTable(history),
	}}
}

// FromRows builds a Dataset from rows alone, deriving each header from the
// union of its rows' fields. Convenient for tests and programmatic callers.
func FromRows(properties, lineItems, history []Row) *Dataset {
	return NewDataset(
		Table{Fields: unionFields(properties), Rows: properties},
		Table{Fields: unionFields(lineItems), Rows: lineItems},
		Table{Fields: unionFields(history), Rows: history},
	)
}

// Table returns the table of the given kind. Callers must not modify the rows.
func (d *Dataset) Table(kind TableKind) Table {
	return d.tables[kind]
}

// Properties returns the property rows in input order.
func (d *Dataset) Properties() []Row { return d.tables[TableProperty].Rows }

// LineItems returns the line item rows in input order.
func (d *Dataset) LineItems() []Row { return d.tables[TableLineItem].Rows }

// History returns the historical rows in input order.
func (d *Dataset) History() []Row { return d.tables[TableHistory].Rows }

// Fields returns the header fields recorded for the given table.
func (d *Dataset) Fields(kind TableKind) []string {
	return d.tables[kind].Fields
}

// Derive returns a new Dataset with the same headers as d and the given rows.
func (d *Dataset) Derive(properties, lineItems, history []Row) *Dataset {
	return &Dataset{tables: [3]Table{
		{Fields: cloneStrings(d.tables[TableProperty].Fields), Rows: properties},
		{Fields: cloneStrings(d.tables[TableLineItem].Fields), Rows: lineItems},
		{Fields: cloneStrings(d.tables[TableHistory].Fields), Rows: history},
	}}
}

func cloneTable(t Table) Table {
	return Table{Fields: cloneStrings(t.Fields), Rows: append([]Row(nil), t.Rows...)}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func unionFields(rows []Row) []string {
	seen := make(map[string]bool)
	var fields []string
	for _, r := range rows {
		for _, f := range r.Fields() {
			if !seen[f] {
				seen[f] = true
				fields = append(fields, f)
			}
		}
	}
	return fields
}
