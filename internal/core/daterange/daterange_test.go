package daterange

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ref = time.Date(2025, time.January, 15, 14, 30, 0, 0, time.UTC)

func TestResolve(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name   string
		filter Filter
		want   *Interval
	}{
		{name: "none", filter: Filter{}, want: nil},
		{name: "today", filter: Filter{Today: true}, want: &Interval{day(15), day(16)}},
		{name: "yesterday", filter: Filter{Yesterday: true}, want: &Interval{day(14), day(15)}},
		{name: "last 1 day is today", filter: Filter{Days: 1}, want: &Interval{day(15), day(16)}},
		{name: "last 7 days", filter: Filter{Days: 7}, want: &Interval{day(9), day(16)}},
		{name: "since", filter: Filter{Since: "2025-01-02"}, want: &Interval{day(2), day(16)}},
		{name: "today wins over days", filter: Filter{Today: true, Days: 3}, want: &Interval{day(15), day(16)}},
		{name: "yesterday wins over since", filter: Filter{Yesterday: true, Since: "2024-01-01"}, want: &Interval{day(14), day(15)}},
		{name: "days wins over since", filter: Filter{Days: 2, Since: "2024-01-01"}, want: &Interval{day(14), day(16)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Resolve(ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != nil, tt.filter.Active())
		})
	}
}

func TestResolve_InvalidSince(t *testing.T) {
	_, err := Filter{Since: "2025/01/02"}.Resolve(ref)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestTodayAdmitsNowRejectsYesterday(t *testing.T) {
	now := time.Now()
	iv, err := Filter{Today: true}.Resolve(now)
	require.NoError(t, err)

	assert.True(t, iv.Contains(now.Format(time.RFC3339Nano)))
	assert.True(t, iv.Contains(now.UTC().Format(time.RFC3339)))
	assert.False(t, iv.Contains(now.Add(-25*time.Hour).Format(time.RFC3339Nano)))
}

func TestContains(t *testing.T) {
	iv := ForDay(ref)

	tests := []struct {
		ts   string
		want bool
	}{
		{"2025-01-15T00:00:00Z", true},
		{"2025-01-15T23:59:59.999Z", true},
		{"2025-01-16T00:00:00Z", false},
		{"2025-01-14T23:59:59Z", false},
		{"2025-01-15T10:00:00.123456Z", true},
		{"2025-01-15T01:00:00+02:00", false}, // 2025-01-14T23:00Z
		{"2025-01-14T20:00:00-05:00", true},  // 2025-01-15T01:00Z
		{"2025-01-15T08:00:00", true},
		{"2025-01-15T08:00:00.5", true},
		{"2025-01-15", true},
		{"2025-01-15 08:00:00", true},
		{"", false},
		{"not a date", false},
	}

	for _, tt := range tests {
		t.Run(tt.ts, func(t *testing.T) {
			assert.Equal(t, tt.want, iv.Contains(tt.ts))
		})
	}
}

func TestContains_NilIntervalAdmitsEverything(t *testing.T) {
	var iv *Interval
	assert.True(t, iv.Contains(""))
	assert.True(t, iv.Contains("garbage"))
	assert.True(t, iv.Contains("2025-01-15T00:00:00Z"))
}

func TestParseDay(t *testing.T) {
	got, err := ParseDay("today", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDay("", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDay("Yesterday", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDay("2024-12-31", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDay_NaturalLanguage(t *testing.T) {
	got, err := ParseDay("last friday", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Friday, got.Weekday())
	assert.True(t, got.Before(ref))
	assert.Equal(t, StartOfDay(got), got)
}

func TestParseDay_Invalid(t *testing.T) {
	_, err := ParseDay("qwertyuiop", ref)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))
}
