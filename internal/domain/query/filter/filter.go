package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/assetq/internal/domain/record/field"
)

// MaxConditions is the maximum number of conditions in one expression.
const MaxConditions = 32

// Expression is the conjunction of filter conditions applied to every record.
type Expression struct {
	all []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(conds ...Condition) (Expression, error) {
	if len(conds) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	return Expression{all: conds}, nil
}

// All returns the conditions.
func (e Expression) All() []Condition { return e.all }

// IsEmpty reports whether no condition constrains the result.
func (e Expression) IsEmpty() bool {
	for _, c := range e.all {
		if c.IsActive() {
			return false
		}
	}
	return true
}

// Kind is the comparison a Condition performs.
type Kind string

// Condition kinds.
const (
	KindMatch    Kind = "match"
	KindOneOf    Kind = "one_of"
	KindContains Kind = "contains"
	KindRange    Kind = "range"
)

// Normalizer maps text to its comparable form before matching.
type Normalizer func(string) string

// Fold is the default normalizer: trimmed and lower-cased.
func Fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Condition is a single filter clause on one logical field.
// A condition without values is inactive and matches every record.
type Condition struct {
	key       string
	kind      Kind
	values    []string
	normalize Normalizer
	rangeExpr *Range
}

// NewMatch creates a case-insensitive equality condition. An empty value means no constraint.
func NewMatch(key, value string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	c := Condition{key: key, kind: KindMatch}
	if strings.TrimSpace(value) != "" {
		c.values = []string{value}
	}
	return c, nil
}

// NewOneOf creates a set-membership condition. Blank values are dropped.
func NewOneOf(key string, values []string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	c := Condition{key: key, kind: KindOneOf}
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			c.values = append(c.values, v)
		}
	}
	return c, nil
}

// NewContains creates a case-insensitive substring condition.
func NewContains(key, value string) (Condition, error) {
	c, err := NewMatch(key, value)
	if err != nil {
		return Condition{}, err
	}
	c.kind = KindContains
	return c, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, kind: KindRange, rangeExpr: &r}, nil
}

// WithNormalizer returns a copy of c comparing text through fn instead of Fold.
func (c Condition) WithNormalizer(fn Normalizer) Condition {
	c.normalize = fn
	return c
}

// Key returns the logical field name.
func (c Condition) Key() string { return c.key }

// Kind returns the comparison kind.
func (c Condition) Kind() Kind { return c.kind }

// Values returns the configured values.
func (c Condition) Values() []string { return c.values }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// IsActive reports whether the condition constrains anything.
func (c Condition) IsActive() bool {
	return c.rangeExpr != nil || len(c.values) > 0
}

// Test evaluates the condition against a resolved field value.
// Absent values never match an active condition.
func (c Condition) Test(v any, present bool) bool {
	if !c.IsActive() {
		return true
	}
	if !present || field.IsEmpty(v) {
		return false
	}
	if c.rangeExpr != nil {
		n, ok := toNumber(v)
		return ok && c.rangeExpr.Contains(n)
	}
	norm := c.normalize
	if norm == nil {
		norm = Fold
	}
	got := norm(field.Text(v))
	switch c.kind {
	case KindContains:
		return strings.Contains(got, norm(c.values[0]))
	case KindOneOf:
		for _, want := range c.values {
			if equal(got, norm(want)) {
				return true
			}
		}
		return false
	default:
		return equal(got, norm(c.values[0]))
	}
}

func equal(a, b string) bool {
	if a == b {
		return true
	}
	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	return aerr == nil && berr == nil && af == bf
}

func toNumber(v any) (float64, bool) {
	if n, ok := field.Number(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return n, err == nil
	}
	return 0, false
}

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// Contains reports whether n satisfies every configured bound.
func (r Range) Contains(n float64) bool {
	switch {
	case r.gt != nil && !(n > *r.gt):
		return false
	case r.gte != nil && !(n >= *r.gte):
		return false
	case r.lt != nil && !(n < *r.lt):
		return false
	case r.lte != nil && !(n <= *r.lte):
		return false
	}
	return true
}
