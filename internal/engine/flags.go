package engine

import (
	"strings"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/datetime"
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/record"
)

// EmptyFlag passes records whose logical field resolves to nothing.
func (e *Engine) EmptyFlag(name, logical string) query.Flag {
	return query.Flag{Name: name, Test: func(r record.Record) bool {
		_, ok := e.Resolve(r, logical)
		return !ok
	}}
}

// DueWithinFlag passes records whose date field falls no more than days after now.
// Overdue dates pass; absent or unparsable dates fail.
func (e *Engine) DueWithinFlag(name, logical string, days int, now time.Time) query.Flag {
	limit := now.Add(time.Duration(days) * datetime.Day)
	return query.Flag{Name: name, Test: func(r record.Record) bool {
		v, ok := e.Resolve(r, logical)
		if !ok {
			return false
		}
		d, ok := datetime.Parse(v)
		return ok && !d.After(limit)
	}}
}

// AnyEqualsFlag passes records where at least one of the logical fields equals one of the
// wanted values, case-insensitively. Blank wanted values are ignored; with none left the
// flag matches nothing.
func (e *Engine) AnyEqualsFlag(name string, logical []string, want ...string) query.Flag {
	wanted := make([]string, 0, len(want))
	for _, w := range want {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			wanted = append(wanted, w)
		}
	}
	return query.Flag{Name: name, Test: func(r record.Record) bool {
		for _, f := range logical {
			got := strings.ToLower(strings.TrimSpace(e.Text(r, f)))
			if got == "" {
				continue
			}
			for _, w := range wanted {
				if got == w {
					return true
				}
			}
		}
		return false
	}}
}
