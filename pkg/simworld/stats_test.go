package simworld_test

import (
	"testing"

	"github.com/narrativekit/kb/pkg/simworld"
)

func TestStatsModifier(t *testing.T) {
	stats := simworld.NewStats()
	stats.Strength = 18
	stats.Dexterity = 14
	stats.Constitution = 12
	stats.Intelligence = 8
	stats.Wisdom = 10
	stats.Charisma = 16

	cases := []struct {
		stat simworld.Stat
		want int
	}{
		{simworld.Strength, 4},
		{simworld.Dexterity, 2},
		{simworld.Constitution, 1},
		{simworld.Intelligence, -1},
		{simworld.Wisdom, 0},
		{simworld.Charisma, 3},
	}

	for _, tc := range cases {
		if got := stats.Modifier(tc.stat); got != tc.want {
			t.Errorf("Modifier(%s) = %d, want %d", tc.stat, got, tc.want)
		}
	}
}

func TestStatsDefault(t *testing.T) {
	stats := simworld.NewStats()
	if stats.Strength != 10 {
		t.Errorf("default Strength = %d, want 10", stats.Strength)
	}
	if got := stats.Modifier(simworld.Strength); got != 0 {
		t.Errorf("default Modifier(Strength) = %d, want 0", got)
	}
}
