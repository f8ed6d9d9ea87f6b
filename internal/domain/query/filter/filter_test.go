package filter

import (
	"strings"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

// --- Range tests ---

func TestNewRangeFilter_Valid(t *testing.T) {
	tests := []struct {
		name             string
		gt, gte, lt, lte *float64
	}{
		{"gt only", floatPtr(1), nil, nil, nil},
		{"gte only", nil, floatPtr(0), nil, nil},
		{"lt only", nil, nil, floatPtr(10), nil},
		{"lte only", nil, nil, nil, floatPtr(100)},
		{"gt+lt", floatPtr(0), nil, floatPtr(10), nil},
		{"gte+lte", nil, floatPtr(0), nil, floatPtr(10)},
		{"gt+lte", floatPtr(0), nil, nil, floatPtr(10)},
		{"gte+lt", nil, floatPtr(0), floatPtr(10), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRangeFilter(tt.gt, tt.gte, tt.lt, tt.lte)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (r.GT() == nil) != (tt.gt == nil) {
				t.Error("GT() mismatch")
			}
			if (r.GTE() == nil) != (tt.gte == nil) {
				t.Error("GTE() mismatch")
			}
			if (r.LT() == nil) != (tt.lt == nil) {
				t.Error("LT() mismatch")
			}
			if (r.LTE() == nil) != (tt.lte == nil) {
				t.Error("LTE() mismatch")
			}
		})
	}
}

func TestNewRangeFilter_NoBoundary(t *testing.T) {
	_, err := NewRangeFilter(nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for no boundary")
	}
	if !strings.Contains(err.Error(), "at least one") {
		t.Errorf("error = %q", err)
	}
}

func TestNewRangeFilter_BothGtAndGte(t *testing.T) {
	_, err := NewRangeFilter(floatPtr(1), floatPtr(1), nil, nil)
	if err == nil {
		t.Fatal("expected error for both gt and gte")
	}
	if !strings.Contains(err.Error(), "gt and gte") {
		t.Errorf("error = %q", err)
	}
}

func TestNewRangeFilter_BothLtAndLte(t *testing.T) {
	_, err := NewRangeFilter(nil, nil, floatPtr(1), floatPtr(1))
	if err == nil {
		t.Fatal("expected error for both lt and lte")
	}
	if !strings.Contains(err.Error(), "lt and lte") {
		t.Errorf("error = %q", err)
	}
}

func TestRange_Contains(t *testing.T) {
	r, _ := NewRangeFilter(floatPtr(0), nil, nil, floatPtr(10))
	tests := []struct {
		n    float64
		want bool
	}{
		{-1, false},
		{0, false},
		{0.5, true},
		{10, true},
		{10.01, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.n); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

// --- Condition tests ---

func TestNewMatch_Valid(t *testing.T) {
	c, err := NewMatch("type", "Laptop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key() != "type" {
		t.Errorf("Key() = %q", c.Key())
	}
	if c.Kind() != KindMatch {
		t.Errorf("Kind() = %q", c.Kind())
	}
	if len(c.Values()) != 1 || c.Values()[0] != "Laptop" {
		t.Errorf("Values() = %v", c.Values())
	}
	if !c.IsActive() {
		t.Error("IsActive() = false")
	}
	if c.IsRange() {
		t.Error("IsRange() = true for match condition")
	}
}

func TestNewMatch_EmptyKey(t *testing.T) {
	_, err := NewMatch("", "go")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "key is required") {
		t.Errorf("error = %q", err)
	}
}

func TestNewMatch_EmptyValueIsInactive(t *testing.T) {
	c, err := NewMatch("type", "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IsActive() {
		t.Error("IsActive() = true for blank value")
	}
	if !c.Test(nil, false) {
		t.Error("inactive condition must pass absent values")
	}
}

func TestCondition_Test(t *testing.T) {
	match, _ := NewMatch("type", "laptop")
	oneOf, _ := NewOneOf("type", []string{"", "Camera", "Drone"})
	contains, _ := NewContains("location", "ware")
	r, _ := NewRangeFilter(nil, floatPtr(2), nil, nil)
	rng, _ := NewRange("count", r)

	tests := []struct {
		name    string
		cond    Condition
		v       any
		present bool
		want    bool
	}{
		{"match case-insensitive", match, "LAPTOP", true, true},
		{"match other", match, "camera", true, false},
		{"match absent", match, nil, false, false},
		{"match blank", match, "  ", true, false},
		{"one_of hit", oneOf, "drone", true, true},
		{"one_of miss", oneOf, "laptop", true, false},
		{"contains hit", contains, "Main Warehouse", true, true},
		{"contains miss", contains, "Office", true, false},
		{"range numeric", rng, 3, true, true},
		{"range text number", rng, "2", true, true},
		{"range below", rng, 1.5, true, false},
		{"range not a number", rng, "many", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.Test(tt.v, tt.present); got != tt.want {
				t.Errorf("Test(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestCondition_NumericEquality(t *testing.T) {
	c, _ := NewMatch("floor", "3")
	if !c.Test(3.0, true) {
		t.Error("3.0 should match \"3\"")
	}
}

func TestCondition_WithNormalizer(t *testing.T) {
	c, _ := NewMatch("status", "available")
	c = c.WithNormalizer(func(s string) string {
		if strings.EqualFold(s, "available") {
			return "in service"
		}
		return strings.ToLower(s)
	})
	if !c.Test("In Service", true) {
		t.Error("normalizer should fold both sides")
	}
}

func TestOneOf_AllBlankIsInactive(t *testing.T) {
	c, err := NewOneOf("type", []string{"", " "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IsActive() {
		t.Error("IsActive() = true")
	}
}

func TestNewRange_Valid(t *testing.T) {
	r, _ := NewRangeFilter(floatPtr(0), nil, floatPtr(100), nil)
	c, err := NewRange("priority", r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key() != "priority" {
		t.Errorf("Key() = %q", c.Key())
	}
	if !c.IsRange() {
		t.Error("IsRange() = false")
	}
	if c.Range() == nil {
		t.Fatal("Range() should not be nil")
	}
}

func TestNewRange_EmptyKey(t *testing.T) {
	r, _ := NewRangeFilter(floatPtr(0), nil, nil, nil)
	_, err := NewRange("", r)
	if err == nil {
		t.Fatal("expected error")
	}
}

// --- Expression tests ---

func TestNewExpression_Valid(t *testing.T) {
	m, _ := NewMatch("type", "laptop")
	expr, err := NewExpression(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.All()) != 1 {
		t.Errorf("All() len = %d", len(expr.All()))
	}
	if expr.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty expression")
	}
}

func TestNewExpression_OnlyInactive(t *testing.T) {
	m, _ := NewMatch("type", "")
	expr, err := NewExpression(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expr.IsEmpty() {
		t.Error("IsEmpty() = false for inactive conditions")
	}
}

func TestNewExpression_TooMany(t *testing.T) {
	conds := make([]Condition, MaxConditions+1)
	for i := range conds {
		conds[i] = Condition{key: "k", values: []string{"v"}}
	}
	_, err := NewExpression(conds...)
	if err == nil {
		t.Fatal("expected error for too many conditions")
	}
	if !strings.Contains(err.Error(), "too many") {
		t.Errorf("error = %q", err)
	}
}

func TestNewExpression_AtMaxConditions(t *testing.T) {
	conds := make([]Condition, MaxConditions)
	for i := range conds {
		conds[i] = Condition{key: "k", values: []string{"v"}}
	}
	if _, err := NewExpression(conds...); err != nil {
		t.Fatalf("unexpected error for exactly max conditions: %v", err)
	}
}
