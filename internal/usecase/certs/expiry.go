package certs

import (
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/datetime"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	"github.com/kailas-cloud/assetq/internal/engine"
)

// Expiry is the badge of a document's related date relative to today.
type Expiry string

// Expiry badges.
const (
	ExpiryNone     Expiry = "none"
	ExpiryExpired  Expiry = "expired"
	ExpiryExpiring Expiry = "expiring"
	ExpiryValid    Expiry = "valid"
)

// ParseExpiry accepts a badge name; "soon" is an alias of expiring.
func ParseExpiry(s string) (Expiry, bool) {
	switch s {
	case string(ExpiryNone), string(ExpiryExpired), string(ExpiryExpiring), string(ExpiryValid):
		return Expiry(s), true
	case "soon":
		return ExpiryExpiring, true
	}
	return "", false
}

// expiryOf classifies r. Dates before today's midnight are expired; dates up to
// window whole days ahead are expiring. days is meaningful only when the badge is not none.
func expiryOf(e *engine.Engine, r record.Record, now time.Time, window int) (badge Expiry, days int) {
	v, ok := e.Resolve(r, "related_date")
	if !ok {
		return ExpiryNone, 0
	}
	d, ok := datetime.Parse(v)
	if !ok {
		return ExpiryNone, 0
	}
	today := datetime.StartOfDay(now)
	days = datetime.DaysUntil(d, today)
	switch {
	case d.Before(today):
		return ExpiryExpired, days
	case days <= window:
		return ExpiryExpiring, days
	default:
		return ExpiryValid, days
	}
}
