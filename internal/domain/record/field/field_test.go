package field

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/assetq/internal/domain/record"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"assigned-to":        "assigned_to",
		" Next Service Date": "next_service_date",
		"serial__number":     "serial_number",
		"ID":                 "id",
		"a - b":              "a_b",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty(" \t"))
	assert.True(t, IsEmpty(map[string]any{}))
	assert.True(t, IsEmpty(record.Record{}))
	assert.False(t, IsEmpty(0))
	assert.False(t, IsEmpty(false))
	assert.False(t, IsEmpty("x"))
}

func TestTable_ResolvePriority(t *testing.T) {
	table, err := NewTable(map[string]Path{
		"assigned-to": {Direct("assigned_to"), Nested("users", "name"), Nested("users", "email")},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		r    record.Record
		want any
		ok   bool
	}{
		{"direct", record.Record{"assigned_to": "Ann", "users": map[string]any{"name": "Bob"}}, "Ann", true},
		{"blank direct falls through", record.Record{"assigned_to": "", "users": map[string]any{"name": "Bob"}}, "Bob", true},
		{"nested second key", record.Record{"users": map[string]any{"email": "c@x.io"}}, "c@x.io", true},
		{"nested record type", record.Record{"users": record.Record{"name": "Dee"}}, "Dee", true},
		{"non-map container", record.Record{"users": "oops"}, nil, false},
		{"absent", record.Record{}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := table.Resolve(tt.r, "assigned_to")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestTable_UnknownNameFallsBackToBag(t *testing.T) {
	table := MustTable(map[string]Path{})
	r := record.Record{"fields": map[string]any{"next_service_date": "2024-05-01"}}

	v, ok := table.Resolve(r, "Next Service-Date")
	require.True(t, ok)
	assert.Equal(t, "2024-05-01", v)

	var nilTable *Table
	v, ok = nilTable.Resolve(record.Record{"location": "Depot"}, "location")
	require.True(t, ok)
	assert.Equal(t, "Depot", v)

	_, ok = table.Resolve(nil, "location")
	assert.False(t, ok)
}

func TestNewTable_Invalid(t *testing.T) {
	_, err := NewTable(map[string]Path{" ": {Direct("x")}})
	assert.Error(t, err)

	_, err = NewTable(map[string]Path{"name": {}})
	assert.Error(t, err)

	_, err = NewTable(map[string]Path{"name": {Nested("", "name")}})
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "abc", Text("abc"))
	assert.Equal(t, "42", Text(42))
	assert.Equal(t, "42", Text(uint8(42)))
	assert.Equal(t, "2.5", Text(2.5))
	assert.Equal(t, "true", Text(true))
	assert.Equal(t, "", Text(map[string]any{"a": 1}))
	assert.Equal(t, "2024-03-01T10:00:00Z", Text(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestLocator_String(t *testing.T) {
	assert.Equal(t, "name", Direct("name").String())
	assert.Equal(t, "users.email", Nested("users", "email").String())
	assert.Equal(t, "fields.serial_number", Bag("fields", "Serial Number").String())
	assert.Equal(t, KindBag, Bag("fields", "x").Kind())
}

func TestBag_MatchesKeysInAnyNotation(t *testing.T) {
	p := Path{Bag(DefaultBag, "serial_number")}

	v, ok := p.Resolve(record.Record{"fields": map[string]any{"Serial Number": "SN-9"}})
	require.True(t, ok)
	assert.Equal(t, "SN-9", v)

	v, ok = p.Resolve(record.Record{"fields": map[string]any{
		"serial-number": "B",
		"Serial Number": "A",
		"serial number": "",
	}})
	require.True(t, ok)
	assert.Equal(t, "A", v, "smallest non-empty key wins")

	_, ok = p.Resolve(record.Record{"fields": map[string]any{"serial": "x"}})
	assert.False(t, ok)
}
