package direction

import "strings"

// Direction is the sort order of a query.
type Direction string

// Sort direction constants.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsValid checks if the direction is one of the supported values.
func (d Direction) IsValid() bool {
	return d == Asc || d == Desc
}

// Sign returns 1 for ascending and -1 for descending.
func (d Direction) Sign() int {
	if d == Desc {
		return -1
	}
	return 1
}

// Parse accepts asc/desc and their long forms, case-insensitively.
// Empty input yields fallback.
func Parse(s string, fallback Direction) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return fallback, true
	case "asc", "ascending":
		return Asc, true
	case "desc", "descending":
		return Desc, true
	default:
		return "", false
	}
}
