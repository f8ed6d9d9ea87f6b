// Package query holds the per-interaction query configuration consumed by the engine.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/query/direction"
	"github.com/kailas-cloud/assetq/internal/domain/query/filter"
	"github.com/kailas-cloud/assetq/internal/domain/record"
)

// Query limits.
const (
	// MaxKeywordLength is the maximum allowed keyword length.
	MaxKeywordLength = 4096
	DefaultPageSize  = 25
	MaxPageSize      = 500
)

// FieldRelevance is the pseudo-field that sorts by keyword relevance.
const FieldRelevance = "relevance"

// Sort selects the comparator and its direction.
type Sort struct {
	Field     string
	Direction direction.Direction
	// NullsLast moves absent values to the end instead of the front.
	NullsLast bool
}

// DateRange holds inclusive bounds on one date field. End is inclusive through end of day.
type DateRange struct {
	Field string
	Start *time.Time
	End   *time.Time
}

// IsActive reports whether at least one bound is set.
func (d DateRange) IsActive() bool {
	return d.Start != nil || d.End != nil
}

// Page is the requested result window.
type Page struct {
	Index int
	Size  int
	All   bool
}

// Normalize clamps the window: index below 1 becomes 1, a non-positive size becomes
// defaultSize, and All forces index 1.
func (p Page) Normalize(defaultSize int) Page {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if p.Index < 1 || p.All {
		p.Index = 1
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	return p
}

// Flag is a named boolean domain rule over one record.
type Flag struct {
	Name string
	Test func(record.Record) bool
}

// KeyFunc returns the identity key of a record. ok=false leaves the record out of grouping.
type KeyFunc func(record.Record) (key string, ok bool)

// BetterFunc returns a positive value when a should replace b as a group representative.
type BetterFunc func(a, b record.Record) int

// Config is one query over a raw collection. It is built fresh per interaction.
type Config struct {
	Keyword   string
	Filters   filter.Expression
	Flags     []Flag
	DateRange DateRange
	Sort      Sort
	DedupeKey KeyFunc
	Better    BetterFunc
	Page      Page
	// Now anchors relative date rules. Zero means the engine clock.
	Now time.Time
}

// Validate checks the parts of a Config that callers assemble from user input.
func (c Config) Validate() error {
	if len(c.Keyword) > MaxKeywordLength {
		return fmt.Errorf("keyword too long (max %d chars)", MaxKeywordLength)
	}
	if c.Sort.Direction != "" && !c.Sort.Direction.IsValid() {
		return fmt.Errorf("invalid sort direction: %q", c.Sort.Direction)
	}
	if c.Page.Size > MaxPageSize {
		return fmt.Errorf("page size too large (max %d)", MaxPageSize)
	}
	if c.DedupeKey != nil && c.Better == nil {
		return fmt.Errorf("dedupe key requires a preference function")
	}
	if c.DateRange.IsActive() && c.DateRange.Field == "" {
		return fmt.Errorf("date range requires a field")
	}
	if c.DateRange.Start != nil && c.DateRange.End != nil && c.DateRange.End.Before(*c.DateRange.Start) {
		return fmt.Errorf("date range end is before start")
	}
	for _, f := range c.Flags {
		if f.Test == nil {
			return fmt.Errorf("flag %q has no rule", f.Name)
		}
	}
	return nil
}

// Tokens splits a keyword into lower-cased whitespace-separated tokens.
func Tokens(keyword string) []string {
	return strings.Fields(strings.ToLower(keyword))
}
