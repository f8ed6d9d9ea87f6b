package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Notations(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in   any
		want time.Time
	}{
		{"15/03/2024", day},
		{"5/3/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15", day},
		{" 2024-03-15 ", day},
		{"2024-03-15T00:00:00Z", day},
		{"2024-03-15T02:00:00+02:00", day},
		{"2024-03-15T10:30:00.123Z", day.Add(10*time.Hour + 30*time.Minute + 123*time.Millisecond)},
		{"2024-03-15T10:30", day.Add(10*time.Hour + 30*time.Minute)},
		{"2024-03-15 10:30:00", day.Add(10*time.Hour + 30*time.Minute)},
		{"2024-03-15 10:30:00+00", day.Add(10*time.Hour + 30*time.Minute)},
		{"2024-03-15 and some text", day},
		{day.In(time.FixedZone("X", 3600)), day},
		{day.UnixMilli(), day},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		require.True(t, ok, "%v", tt.in)
		assert.True(t, tt.want.Equal(got), "%v: got %v", tt.in, got)
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []any{
		nil, "", "yesterday", "31/02/2024", "2024-02-30", "13/13/2024", "2024-13-01", true, time.Time{},
		map[string]any{},
	} {
		_, ok := Parse(in)
		assert.False(t, ok, "%v", in)
	}
}

func TestLooksLikeDate(t *testing.T) {
	assert.True(t, LooksLikeDate("2024-03"))
	assert.True(t, LooksLikeDate("2024-03-15T10:00:00Z"))
	assert.True(t, LooksLikeDate("15/03/2024"))
	assert.True(t, LooksLikeDate(" 5/3/2024 "))
	assert.False(t, LooksLikeDate("15/03/24"))
	assert.False(t, LooksLikeDate("24-03-15"))
}

func TestEndOfDay(t *testing.T) {
	in := time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)
	end := EndOfDay(in)

	assert.Equal(t, 18, end.Day())
	assert.True(t, end.Add(time.Nanosecond).Equal(time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC)))
	assert.True(t, StartOfDay(in).Equal(time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysUntil(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, 0, DaysUntil(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, -1, DaysUntil(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), now))
}
