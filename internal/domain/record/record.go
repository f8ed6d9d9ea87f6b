// Package record defines the schema-less unit of data that flows through the query engine.
package record

// Record is one loosely-typed asset, event or document. Values are text, numbers, booleans,
// date text or nested mappings. The engine treats records as read-only.
type Record map[string]any

// Get returns the direct property name.
func (r Record) Get(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// Child returns the nested mapping stored under name, if any.
func (r Record) Child(name string) (Record, bool) {
	return AsRecord(r[name])
}

// AsRecord converts a decoded nested mapping to a Record.
func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	default:
		return nil, false
	}
}

// Clone returns a shallow copy, for callers that need to decorate a record
// without touching the input collection.
func (r Record) Clone() Record {
	out := make(Record, len(r)+2)
	for k, v := range r {
		out[k] = v
	}
	return out
}
