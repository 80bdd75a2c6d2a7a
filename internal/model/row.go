package model

import (
	"sort"
	"strings"
)

// Row is one parsed table row: field name -> raw cell value.
// Rows are treated as immutable once parsed and may be shared between datasets.
type Row map[string]string

// Get returns the value of field, matching the field name case-insensitively.
// An exact match is preferred over a case-folded one.
func (r Row) Get(field string) string {
	v, _ := r.Lookup(field)
	return v
}

// Lookup is like Get but also reports whether the field is present. When
// several keys fold to field and none matches exactly, the smallest key in
// byte order wins so repeated lookups agree.
func (r Row) Lookup(field string) (string, bool) {
	if v, ok := r[field]; ok {
		return v, true
	}
	var (
		match string
		found bool
	)
	for k := range r {
		if strings.EqualFold(k, field) && (!found || k < match) {
			match, found = k, true
		}
	}
	if !found {
		return "", false
	}
	return r[match], true
}

// Blank reports whether field is missing or holds only whitespace.
func (r Row) Blank(field string) bool {
	return strings.TrimSpace(r.Get(field)) == ""
}

// Fields returns the row's field names in sorted order.
func (r Row) Fields() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
