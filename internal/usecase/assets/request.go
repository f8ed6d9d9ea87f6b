package assets

// Request is one asset search as entered by a user. Zero values mean "no constraint".
type Request struct {
	Keyword    string
	Status     string
	Type       string
	Location   string
	AssignedTo string

	// Quick flags.
	Unassigned bool
	DueSoon    bool
	OnlyMine   bool

	Sort      string
	Direction string
	NullsLast bool

	Page     int
	PageSize int
	All      bool
}
