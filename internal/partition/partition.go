package partition

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cleared-dev/bulkutil/internal/id"
	"github.com/cleared-dev/bulkutil/internal/model"
)

// ErrInvalidArgument is returned for a non-positive batch size or a negative count.
var ErrInvalidArgument = errors.New("invalid argument")

// Subset returns a new dataset holding the first n properties in input order,
// the history rows referencing them and the line items those history rows use.
// Rows are not validated; n beyond the table length keeps every property.
func Subset(ds *model.Dataset, n int) (*model.Dataset, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: property count must not be negative, got %d", ErrInvalidArgument, n)
	}
	props := ds.Properties()
	if n > len(props) {
		n = len(props)
	}
	return closure(ds, props[:n:n]), nil
}

// Split partitions the properties into consecutive batches of at most
// batchSize and derives each batch's history and line items with the same
// closure rule as Subset. Batches are returned in input order.
func Split(ds *model.Dataset, batchSize int) ([]*model.Dataset, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be a positive integer, got %d", ErrInvalidArgument, batchSize)
	}

	props := ds.Properties()
	var batches [][]model.Row
	for start := 0; start < len(props); start += batchSize {
		end := min(start+batchSize, len(props))
		batches = append(batches, props[start:end:end])
	}
	if len(batches) == 0 {
		return nil, nil
	}

	// Map each property key to every batch holding it; duplicate ids may span batches.
	owners := make(map[id.Key][]int)
	for b, rows := range batches {
		for _, p := range rows {
			if k, ok := id.Normalize(p.Get(model.FieldEntityID)); ok {
				owners[k] = appendUnique(owners[k], b)
			}
		}
	}

	history := make([][]model.Row, len(batches))
	itemOwners := make(map[id.Key][]int)
	for _, h := range ds.History() {
		k, ok := id.Normalize(h.Get(model.FieldEntityID))
		if !ok {
			continue
		}
		for _, b := range owners[k] {
			history[b] = append(history[b], h)
			if lk, ok := id.Normalize(h.Get(model.FieldLineItemID)); ok {
				itemOwners[lk] = appendUnique(itemOwners[lk], b)
			}
		}
	}

	items := make([][]model.Row, len(batches))
	for _, li := range ds.LineItems() {
		k, ok := id.Normalize(li.Get(model.FieldLineItemID))
		if !ok {
			continue
		}
		for _, b := range itemOwners[k] {
			items[b] = append(items[b], li)
		}
	}

	out := make([]*model.Dataset, len(batches))
	for b := range batches {
		props := append([]model.Row(nil), batches[b]...)
		out[b] = ds.Derive(props, items[b], history[b])
	}
	return out, nil
}

// closure derives the dataset reachable from props: property -> history -> line item.
func closure(ds *model.Dataset, props []model.Row) *model.Dataset {
	keep := id.NewIndex(len(props))
	for i, p := range props {
		keep.Add(p.Get(model.FieldEntityID), i)
	}

	var history []model.Row
	used := id.NewIndex(0)
	for i, h := range ds.History() {
		if keep.Contains(h.Get(model.FieldEntityID)) {
			history = append(history, h)
			used.Add(h.Get(model.FieldLineItemID), i)
		}
	}

	var items []model.Row
	for _, li := range ds.LineItems() {
		if used.Contains(li.Get(model.FieldLineItemID)) {
			items = append(items, li)
		}
	}

	return ds.Derive(append([]model.Row(nil), props...), items, history)
}

func appendUnique(list []int, b int) []int {
	if slices.Contains(list, b) {
		return list
	}
	return append(list, b)
}
