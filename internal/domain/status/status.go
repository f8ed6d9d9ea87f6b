// Package status canonicalizes asset lifecycle statuses written in different vocabularies.
package status

import "strings"

// Canonical statuses.
const (
	InService   = "in service"
	Maintenance = "maintenance"
	Repair      = "repair"
	CheckedOut  = "checked out"
	Rented      = "rented"
	EndOfLife   = "end of life"
)

var synonyms = map[string]string{
	"available": InService,
	"reserved":  InService,
	"lost":      EndOfLife,
	"retired":   EndOfLife,
}

// Canonical lower-cases s, maps "_" and "-" to spaces, collapses whitespace and
// folds known synonyms onto the canonical vocabulary.
func Canonical(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	if c, ok := synonyms[s]; ok {
		return c
	}
	return s
}

// Group is Canonical with off-site statuses folded into Repair, as the activity
// feed groups them.
func Group(s string) string {
	c := Canonical(s)
	if c == CheckedOut || c == Rented {
		return Repair
	}
	return c
}

// Equal reports whether two statuses are the same after canonicalization.
func Equal(a, b string) bool {
	return Canonical(a) == Canonical(b)
}
