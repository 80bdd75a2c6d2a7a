package id

import "strings"

// Key is the canonical comparison form of an identifier: trimmed and lower-cased.
// The zero Key means "absent" and never matches anything, not even another absent key.
type Key string

// Normalize returns the canonical Key for a raw identifier value.
// ok is false when the value is empty after trimming.
func Normalize(raw string) (k Key, ok bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	return Key(s), true
}

// Absent reports whether raw normalizes to the absent key.
func Absent(raw string) bool {
	_, ok := Normalize(raw)
	return !ok
}

// Equal reports whether two raw identifiers refer to the same key.
// Two absent values are never equal.
func Equal(a, b string) bool {
	ka, ok := Normalize(a)
	if !ok {
		return false
	}
	kb, ok := Normalize(b)
	return ok && ka == kb
}
