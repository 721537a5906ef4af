package simworld_test

import (
	"math"
	"testing"

	"github.com/narrativekit/kb/pkg/simworld"
)

func TestWorldIsNight(t *testing.T) {
	w := simworld.New()

	w.Clock.Hour = 14
	if w.IsNight() {
		t.Error("IsNight() at hour 14 = true, want false")
	}

	w.Clock.Hour = 22
	if !w.IsNight() {
		t.Error("IsNight() at hour 22 = false, want true")
	}

	w.Clock.Hour = 4
	if !w.IsNight() {
		t.Error("IsNight() at hour 4 = false, want true")
	}
}

func TestWorldAdvanceTime(t *testing.T) {
	w := simworld.New()
	w.Clock = simworld.Clock{Day: 1, Hour: 23, Minute: 30, Season: simworld.Spring}

	w.AdvanceTime(60)

	if w.Clock.Hour != 0 {
		t.Errorf("Hour = %d, want 0", w.Clock.Hour)
	}
	if w.Clock.Minute != 30 {
		t.Errorf("Minute = %d, want 30", w.Clock.Minute)
	}
	if w.Clock.Day != 2 {
		t.Errorf("Day = %d, want 2", w.Clock.Day)
	}
}

func TestWorldCurrentDangerLevel(t *testing.T) {
	w := simworld.New()
	w.Environment.AmbientDangerLevel = 0.3

	w.Clock.Hour = 12
	w.Environment.Weather = simworld.WeatherClear
	if got := w.CurrentDangerLevel(); math.Abs(got-0.3) > 0.01 {
		t.Errorf("day/clear danger = %v, want ~0.3", got)
	}

	w.Clock.Hour = 22
	if got := w.CurrentDangerLevel(); math.Abs(got-0.5) > 0.01 {
		t.Errorf("night/clear danger = %v, want ~0.5", got)
	}

	w.Environment.Weather = simworld.WeatherStormy
	if got := w.CurrentDangerLevel(); math.Abs(got-0.65) > 0.01 {
		t.Errorf("night/stormy danger = %v, want ~0.65", got)
	}
}

func TestWorldAddCharacter(t *testing.T) {
	w := simworld.New()
	c := simworld.NewCharacter("Test Hero")
	id := w.AddCharacter(c)

	got, ok := w.GetCharacter(id)
	if !ok {
		t.Fatal("GetCharacter after AddCharacter: not found")
	}
	if got.Name() != "Test Hero" {
		t.Errorf("Name() = %q, want %q", got.Name(), "Test Hero")
	}
}
