package engine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/datetime"
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/query/direction"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	"github.com/kailas-cloud/assetq/internal/domain/record/field"
)

// Comparator is a total order over records returning -1, 0 or 1.
type Comparator func(a, b record.Record) int

// Comparator builds the comparator for s, including the schema tie-breakers.
// tokens are the lower-cased keyword tokens used by relevance ordering.
func (e *Engine) Comparator(s query.Sort, tokens []string, now time.Time) Comparator {
	primary := e.primary(s, tokens, now)
	if len(e.schema.TieBreakers) == 0 {
		return primary
	}
	chain := make([]Comparator, 0, len(e.schema.TieBreakers)+1)
	chain = append(chain, primary)
	for _, tb := range e.schema.TieBreakers {
		tb.NullsLast = s.NullsLast
		chain = append(chain, e.primary(tb, tokens, now))
	}
	return func(a, b record.Record) int {
		for _, c := range chain {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}
}

func (e *Engine) primary(s query.Sort, tokens []string, now time.Time) Comparator {
	if s.Direction == "" {
		s.Direction = direction.Asc
	}
	switch {
	case s.Field == "":
		return func(record.Record, record.Record) int { return 0 }
	case s.Field == query.FieldRelevance:
		return e.relevance(s, tokens)
	case e.schema.Custom[s.Field] != nil:
		return e.schema.Custom[s.Field](e, s, now)
	default:
		return e.byField(s)
	}
}

// byField compares resolved values with the null-first policy.
func (e *Engine) byField(s query.Sort) Comparator {
	path := e.schema.Fields.Path(s.Field)
	sign := s.Direction.Sign()
	return func(a, b record.Record) int {
		av, aok := path.Resolve(a)
		bv, bok := path.Resolve(b)
		if r, done := nulls(!aok, !bok, s.NullsLast); done {
			return r
		}
		return sign * CompareValues(av, bv)
	}
}

// relevance orders by descending score whatever the requested direction, then by name ascending.
func (e *Engine) relevance(s query.Sort, tokens []string) Comparator {
	byName := e.byField(query.Sort{Field: e.schema.NameField, Direction: direction.Asc, NullsLast: s.NullsLast})
	return func(a, b record.Record) int {
		as, bs := e.Score(a, tokens), e.Score(b, tokens)
		if as != bs {
			if as > bs {
				return -1
			}
			return 1
		}
		return byName(a, b)
	}
}

// DaysUntil sorts by whole days from now until a date field.
// Absent or unparsable dates follow the null policy.
func DaysUntil(name string) CustomSort {
	return func(e *Engine, s query.Sort, now time.Time) Comparator {
		path := e.schema.Fields.Path(name)
		sign := s.Direction.Sign()
		days := func(r record.Record) (int, bool) {
			v, ok := path.Resolve(r)
			if !ok {
				return 0, false
			}
			d, ok := datetime.Parse(v)
			if !ok {
				return 0, false
			}
			return datetime.DaysUntil(d, now), true
		}
		return func(a, b record.Record) int {
			ad, aok := days(a)
			bd, bok := days(b)
			if r, done := nulls(!aok, !bok, s.NullsLast); done {
				return r
			}
			return sign * cmpInt(ad, bd)
		}
	}
}

// nulls applies the null policy. done is false when both values are present.
// Absent values sort first unless nullsLast, independent of direction.
func nulls(aNull, bNull, nullsLast bool) (int, bool) {
	switch {
	case aNull && bNull:
		return 0, true
	case aNull:
		if nullsLast {
			return 1, true
		}
		return -1, true
	case bNull:
		if nullsLast {
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

type class uint8

const (
	classDate class = iota
	classNumber
	classText
)

type sortKey struct {
	class class
	date  time.Time
	num   float64
	text  string
}

func keyOf(v any) sortKey {
	switch x := v.(type) {
	case time.Time:
		return sortKey{class: classDate, date: x.UTC()}
	case string:
		if datetime.LooksLikeDate(x) {
			if d, ok := datetime.ParseText(x); ok {
				return sortKey{class: classDate, date: d}
			}
		}
		if n, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil && !math.IsNaN(n) {
			return sortKey{class: classNumber, num: n}
		}
		return sortKey{class: classText, text: strings.ToLower(x)}
	}
	if n, ok := field.Number(v); ok && !math.IsNaN(n) {
		return sortKey{class: classNumber, num: n}
	}
	return sortKey{class: classText, text: strings.ToLower(field.Text(v))}
}

// CompareValues orders two present values: dates by instant, numbers numerically and
// everything else as case-insensitive text. Values of different classes order
// date < number < text so the result stays a total order.
func CompareValues(a, b any) int {
	ka, kb := keyOf(a), keyOf(b)
	if ka.class != kb.class {
		return cmpInt(int(ka.class), int(kb.class))
	}
	switch ka.class {
	case classDate:
		return ka.date.Compare(kb.date)
	case classNumber:
		switch {
		case ka.num < kb.num:
			return -1
		case ka.num > kb.num:
			return 1
		}
		return 0
	default:
		return strings.Compare(ka.text, kb.text)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
