package activity

// Date range presets.
const (
	RangeAll    = "all"
	Range24h    = "24h"
	Range7d     = "7d"
	Range30d    = "30d"
	RangeCustom = "custom"
)

// Request is one activity feed query. Zero values mean "no constraint".
type Request struct {
	Keyword string
	// Types matches event types case-insensitively.
	Types []string
	// AssetTypes matches the type name of the asset an event refers to.
	AssetTypes []string
	// Status keeps STATUS_CHANGE events moving an asset into this status.
	Status string

	Range string
	// From and To bound a custom range, in either date notation. To is inclusive.
	// Either one without Range implies RangeCustom; with any other range it is rejected.
	From string
	To   string

	Sort      string
	Direction string
	NullsLast bool

	Page     int
	PageSize int
	All      bool
}
