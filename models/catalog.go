package models

import "strings"

// The purchasable catalog is closed: only these item kinds are ever priced.
var catalog = map[string]struct{}{
	"apple":  {},
	"banana": {},
	"lime":   {},
	"melon":  {},
}

// NormalizeItemName lower-cases and trims an item name to the form the
// pricing service expects.
func NormalizeItemName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidItemName reports whether name (after normalization) is a purchasable
// item kind.
func ValidItemName(name string) bool {
	_, ok := catalog[NormalizeItemName(name)]
	return ok
}

// CatalogItems returns the purchasable item kinds, for error messages.
func CatalogItems() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	return names
}
