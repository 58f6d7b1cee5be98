package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minuteInterval(t *testing.T, startMin, endMin int) Interval {
	t.Helper()
	base := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	iv, err := NewInterval(base.Add(time.Duration(startMin)*time.Minute), base.Add(time.Duration(endMin)*time.Minute))
	require.NoError(t, err)
	return iv
}

func TestNewInterval_Invalid(t *testing.T) {
	now := time.Now()

	_, err := NewInterval(now, now)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(now.Add(time.Hour), now)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{"identical", minuteInterval(t, 0, 60), minuteInterval(t, 0, 60), true},
		{"contained", minuteInterval(t, 0, 120), minuteInterval(t, 30, 60), true},
		{"partial overlap", minuteInterval(t, 0, 60), minuteInterval(t, 30, 90), true},
		{"touching boundary", minuteInterval(t, 0, 60), minuteInterval(t, 60, 120), false},
		{"disjoint", minuteInterval(t, 0, 60), minuteInterval(t, 90, 120), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
		})
	}
}

func TestOverlaps_Symmetry(t *testing.T) {
	pairs := [][2]Interval{
		{minuteInterval(t, 0, 60), minuteInterval(t, 30, 90)},
		{minuteInterval(t, 0, 60), minuteInterval(t, 60, 120)},
		{minuteInterval(t, 0, 30), minuteInterval(t, 45, 90)},
		{minuteInterval(t, 0, 240), minuteInterval(t, 10, 20)},
	}

	for _, p := range pairs {
		assert.Equal(t, p[0].Overlaps(p[1]), p[1].Overlaps(p[0]),
			"overlaps(%s, %s) must be symmetric", p[0], p[1])
	}
}

func TestContains(t *testing.T) {
	iv := minuteInterval(t, 0, 60)

	assert.True(t, iv.Contains(iv.Start))
	assert.True(t, iv.Contains(iv.Start.Add(30*time.Minute)))
	// End instant is excluded.
	assert.False(t, iv.Contains(iv.End))
	assert.False(t, iv.Contains(iv.Start.Add(-time.Nanosecond)))
}
