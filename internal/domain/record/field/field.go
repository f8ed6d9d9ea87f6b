// Package field resolves logical field names against records whose physical shape varies
// between sources.
package field

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/record"
)

// DefaultBag is the free-form attribute container probed for unknown names.
const DefaultBag = "fields"

// Kind is the physical lookup strategy of a Locator.
type Kind uint8

// Locator kinds.
const (
	KindDirect Kind = iota + 1
	KindNested
	KindBag
)

// Locator is one physical place a logical field may live.
type Locator struct {
	kind      Kind
	container string
	key       string
}

// Direct probes a top-level property.
func Direct(key string) Locator { return Locator{kind: KindDirect, key: key} }

// Nested probes a property of a one-level nested mapping.
func Nested(container, key string) Locator {
	return Locator{kind: KindNested, container: container, key: key}
}

// Bag probes a free-form attribute mapping keyed by the normalized name.
func Bag(container, name string) Locator {
	return Locator{kind: KindBag, container: container, key: Normalize(name)}
}

// Kind returns the lookup strategy.
func (l Locator) Kind() Kind { return l.kind }

// String renders the locator as a dotted path.
func (l Locator) String() string {
	if l.container == "" {
		return l.key
	}
	return l.container + "." + l.key
}

func (l Locator) lookup(r record.Record) (any, bool) {
	switch l.kind {
	case KindDirect:
		return r.Get(l.key)
	case KindNested:
		child, ok := r.Child(l.container)
		if !ok {
			return nil, false
		}
		return child.Get(l.key)
	case KindBag:
		child, ok := r.Child(l.container)
		if !ok {
			return nil, false
		}
		if v, ok := child.Get(l.key); ok && !IsEmpty(v) {
			return v, true
		}
		return bagScan(child, l.key)
	default:
		return nil, false
	}
}

// bagScan matches bag keys written in any notation. When several keys normalize to
// the same name, the lexically smallest non-empty one wins.
func bagScan(bag record.Record, key string) (any, bool) {
	var (
		bestKey string
		bestVal any
		found   bool
	)
	for k, v := range bag {
		if IsEmpty(v) || Normalize(k) != key {
			continue
		}
		if !found || k < bestKey {
			bestKey, bestVal, found = k, v, true
		}
	}
	return bestVal, found
}

// Path is the ordered list of locators for one logical name.
type Path []Locator

// Resolve returns the first non-empty value along the path.
func (p Path) Resolve(r record.Record) (any, bool) {
	for _, l := range p {
		v, ok := l.lookup(r)
		if ok && !IsEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

// Table maps logical names to paths for one record source.
type Table struct {
	paths map[string]Path
}

// NewTable validates and creates a Table. Logical names are stored normalized.
func NewTable(paths map[string]Path) (*Table, error) {
	t := &Table{paths: make(map[string]Path, len(paths))}
	for name, p := range paths {
		n := Normalize(name)
		if n == "" {
			return nil, fmt.Errorf("empty logical field name")
		}
		if len(p) == 0 {
			return nil, fmt.Errorf("field %q has no locators", name)
		}
		for _, l := range p {
			if l.key == "" || (l.kind != KindDirect && l.container == "") {
				return nil, fmt.Errorf("field %q has an incomplete locator %q", name, l)
			}
		}
		t.paths[n] = p
	}
	return t, nil
}

// MustTable is NewTable for static tables declared at init time.
func MustTable(paths map[string]Path) *Table {
	t, err := NewTable(paths)
	if err != nil {
		panic(err)
	}
	return t
}

// Path returns the configured path for name, or the fallback path for unknown names:
// the direct property, then the "fields" bag.
func (t *Table) Path(name string) Path {
	n := Normalize(name)
	if t != nil {
		if p, ok := t.paths[n]; ok {
			return p
		}
	}
	return Path{Direct(name), Bag(DefaultBag, n)}
}

// Resolve looks up a logical field. A nil Table resolves every name with the fallback path.
func (t *Table) Resolve(r record.Record, name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	return t.Path(name).Resolve(r)
}

// Text resolves a logical field and renders it as text. Absent fields give "".
func (t *Table) Text(r record.Record, name string) string {
	v, ok := t.Resolve(r, name)
	if !ok {
		return ""
	}
	return Text(v)
}

// Normalize lower-cases and trims name and maps whitespace and hyphens to underscores.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	prevSep := false
	for _, r := range name {
		if r == ' ' || r == '\t' || r == '\n' || r == '-' || r == '_' {
			if !prevSep {
				b.WriteByte('_')
			}
			prevSep = true
			continue
		}
		prevSep = false
		b.WriteRune(r)
	}
	return b.String()
}

// IsEmpty reports whether v counts as absent: nil, blank text or an empty mapping.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case map[string]any:
		return len(x) == 0
	case record.Record:
		return len(x) == 0
	default:
		return false
	}
}

// Text renders a scalar value as text. Mappings render as "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case map[string]any, record.Record:
		return ""
	}
	if f, ok := Number(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// Number converts native numeric values to float64. Text is not parsed here.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}
