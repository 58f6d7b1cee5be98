package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"spaces only", "   ", ""},
		{"leading and trailing", "  Team sync  ", "Team sync"},
		{"internal runs", "Team\t\tsync   call", "Team sync call"},
		{"newlines", "Team\nsync", "Team sync"},
		{"already clean", "Team sync", "Team sync"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimAndNormalize(tt.input))
		})
	}
}

func TestNormalizeTitle_PreservesCase(t *testing.T) {
	assert.Equal(t, "Quarterly Review", NormalizeTitle("  Quarterly   Review "))
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"North Tel Aviv", "north_tel_aviv"},
		{"  Room A-1  ", "room_a_1"},
		{"___", ""},
		{"déjà vu", "déjà_vu"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeLabel(tt.input))
	}
}

func TestSanitizeSlice(t *testing.T) {
	in := []string{" Zone A ", "zone a", "", "Zone B"}
	out := SanitizeSlice(in, SanitizeLabel)
	assert.Equal(t, []string{"zone_a", "zone_b"}, out)
}
