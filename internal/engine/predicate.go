package engine

import (
	"strings"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/datetime"
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/record"
)

// Matches reports whether r passes the keyword, every filter, the date range and every flag.
func (e *Engine) Matches(r record.Record, cfg query.Config) bool {
	return e.matcher(cfg)(r)
}

// matcher prepares the per-query parts of Matches once per Run.
func (e *Engine) matcher(cfg query.Config) func(record.Record) bool {
	tokens := query.Tokens(cfg.Keyword)
	conds := cfg.Filters.All()
	dr := cfg.DateRange
	var start, end time.Time
	if dr.Start != nil {
		start = dr.Start.UTC()
	}
	if dr.End != nil {
		end = datetime.EndOfDay(*dr.End)
	}

	return func(r record.Record) bool {
		if r == nil {
			return false
		}
		if len(tokens) > 0 && !e.keywordMatches(r, tokens) {
			return false
		}
		for _, c := range conds {
			v, ok := e.Resolve(r, c.Key())
			if !c.Test(v, ok) {
				return false
			}
		}
		if dr.IsActive() {
			v, ok := e.Resolve(r, dr.Field)
			if !ok {
				return false
			}
			d, ok := datetime.Parse(v)
			if !ok {
				return false
			}
			if dr.Start != nil && d.Before(start) {
				return false
			}
			if dr.End != nil && d.After(end) {
				return false
			}
		}
		for _, f := range cfg.Flags {
			if f.Test != nil && !f.Test(r) {
				return false
			}
		}
		return true
	}
}

// keywordMatches requires every token to be a substring of the searchable haystack.
func (e *Engine) keywordMatches(r record.Record, tokens []string) bool {
	hay := e.haystack(r)
	for _, t := range tokens {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}

func (e *Engine) haystack(r record.Record) string {
	var b strings.Builder
	for _, name := range e.schema.Searchable {
		s := e.Text(r, name)
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return strings.ToLower(b.String())
}
