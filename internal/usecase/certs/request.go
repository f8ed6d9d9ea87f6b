package certs

// Page sizes offered by the registry.
var PageSizes = []int{25, 50, 100}

// Request is one registry query. Zero values mean "no constraint".
type Request struct {
	Keyword  string
	Type     string
	Assigned string
	OnlyMine bool
	// Label matches the document label case-insensitively.
	Label string
	// From and To bound related_date, in either date notation. To is inclusive.
	From string
	To   string
	// Expiry is one of none, expired, expiring (or soon) and valid.
	Expiry string
	// History lists every version instead of the latest per document.
	History bool

	Sort      string
	Direction string
	NullsLast bool

	Page     int
	PageSize int
	All      bool
}
