package id

// Index records the first position at which each normalized identifier was seen.
// Absent identifiers are never stored and never found.
type Index struct {
	first map[Key]int
	order []Key
}

// NewIndex creates an empty Index sized for n identifiers.
func NewIndex(n int) *Index {
	return &Index{first: make(map[Key]int, n)}
}

// Add records raw at position pos. It returns false, leaving the index
// unchanged, when raw is absent or its key was already added.
func (ix *Index) Add(raw string, pos int) bool {
	k, ok := Normalize(raw)
	if !ok {
		return false
	}
	if _, seen := ix.first[k]; seen {
		return false
	}
	ix.first[k] = pos
	ix.order = append(ix.order, k)
	return true
}

// Contains reports whether raw's key has been added.
func (ix *Index) Contains(raw string) bool {
	k, ok := Normalize(raw)
	if !ok {
		return false
	}
	return ix.Has(k)
}

// Has reports whether the already-normalized key k has been added.
func (ix *Index) Has(k Key) bool {
	if k == "" {
		return false
	}
	_, ok := ix.first[k]
	return ok
}

// Position returns the position recorded for raw's key.
func (ix *Index) Position(raw string) (int, bool) {
	k, ok := Normalize(raw)
	if !ok {
		return 0, false
	}
	pos, ok := ix.first[k]
	return pos, ok
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int {
	return len(ix.order)
}

// Keys returns the keys in insertion order.
func (ix *Index) Keys() []Key {
	return append([]Key(nil), ix.order...)
}
