// Package engine filters, deduplicates, ranks and paginates raw record collections.
//
// An Engine is configured once per record source with a Schema and is then safe for
// concurrent use: every Run works only on the slice and Config passed into it.
package engine

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain"
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	"github.com/kailas-cloud/assetq/internal/domain/record/field"
)

// Default relevance weights.
const (
	DefaultIDBonus      = 1000
	DefaultNamePrefix   = 300
	DefaultNameContains = 150
)

// Weight awards Points when a keyword token is a substring of Field.
type Weight struct {
	Field  string
	Points int
}

// Relevance configures the keyword relevance heuristic.
type Relevance struct {
	IDBonus      int
	NamePrefix   int
	NameContains int
	Weights      []Weight
}

// CustomSort builds the comparator for a virtual sort field.
type CustomSort func(e *Engine, s query.Sort, now time.Time) Comparator

// Schema describes one record source.
type Schema struct {
	Fields *field.Table
	// Searchable lists the logical fields concatenated for keyword matching.
	Searchable []string
	NameField  string
	IDField    string
	Relevance  Relevance
	// Custom maps virtual sort fields to comparator builders.
	Custom map[string]CustomSort
	// TieBreakers apply in order when the primary comparator reports equality.
	TieBreakers []query.Sort
}

// Stats describes one pipeline run.
type Stats struct {
	Input    int
	Matched  int
	Deduped  bool
	Total    int
	Returned int
	Took     time.Duration
}

// Observer receives Stats after every Run.
type Observer interface {
	ObserveRun(Stats)
}

// Engine runs queries against collections of one schema.
type Engine struct {
	schema   Schema
	clock    func() time.Time
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used when a Config carries no Now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New validates the schema and creates an Engine.
func New(schema Schema, opts ...Option) (*Engine, error) {
	if schema.NameField == "" {
		schema.NameField = "name"
	}
	if schema.IDField == "" {
		schema.IDField = "id"
	}
	if schema.Relevance.IDBonus == 0 {
		schema.Relevance.IDBonus = DefaultIDBonus
	}
	if schema.Relevance.NamePrefix == 0 {
		schema.Relevance.NamePrefix = DefaultNamePrefix
	}
	if schema.Relevance.NameContains == 0 {
		schema.Relevance.NameContains = DefaultNameContains
	}
	for _, w := range schema.Relevance.Weights {
		if w.Field == "" || w.Points < 0 {
			return nil, fmt.Errorf("%w: relevance weight %q/%d", domain.ErrInvalidSchema, w.Field, w.Points)
		}
	}
	for name, c := range schema.Custom {
		if c == nil {
			return nil, fmt.Errorf("%w: custom sort %q has no comparator", domain.ErrInvalidSchema, name)
		}
	}
	for _, tb := range schema.TieBreakers {
		if tb.Field == "" || tb.Field == query.FieldRelevance {
			return nil, fmt.Errorf("%w: invalid tie-breaker %q", domain.ErrInvalidSchema, tb.Field)
		}
	}

	e := &Engine{schema: schema, clock: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// MustNew is New for schemas declared at package init.
func MustNew(schema Schema, opts ...Option) *Engine {
	e, err := New(schema, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Schema returns the engine schema.
func (e *Engine) Schema() Schema { return e.schema }

// Resolve looks up a logical field through the schema's field table.
func (e *Engine) Resolve(r record.Record, name string) (any, bool) {
	return e.schema.Fields.Resolve(r, name)
}

// Text resolves a logical field as text.
func (e *Engine) Text(r record.Record, name string) string {
	return e.schema.Fields.Text(r, name)
}

func (e *Engine) now(cfg query.Config) time.Time {
	if !cfg.Now.IsZero() {
		return cfg.Now
	}
	return e.clock()
}
