package suncolor

import (
	"testing"
	"time"
)

func testTimes() *SunTimes {
	day := func(h, m int) time.Time {
		return time.Date(2026, 8, 25, h, m, 0, 0, time.UTC)
	}
	return &SunTimes{
		AstronomicalDawn: day(4, 30),
		Sunrise:          day(6, 0),
		SolarNoon:        day(13, 0),
		Sunset:           day(20, 0),
		AstronomicalDusk: day(21, 30),
	}
}

func TestClockPhases(t *testing.T) {
	clock := NewClock(testTimes())
	at := func(h, m int) time.Time {
		return time.Date(2026, 8, 25, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"middle of the night", at(2, 0), PhaseNight},
		{"exactly at astronomical dawn", at(4, 30), PhaseDawn},
		{"just before sunrise", at(5, 59), PhaseDawn},
		{"exactly at sunrise", at(6, 0), PhaseMorning},
		{"late morning", at(11, 30), PhaseMorning},
		{"exactly at solar noon", at(13, 0), PhaseAfternoon},
		{"exactly at sunset", at(20, 0), PhaseDusk},
		{"just before astronomical dusk", at(21, 29), PhaseDusk},
		{"exactly at astronomical dusk", at(21, 30), PhaseNight},
		{"before dawn same day", at(4, 29), PhaseNight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color, phase := clock.Current(tt.now)
			if phase != tt.want {
				t.Errorf("Current(%v) phase = %q, want %q", tt.now, phase, tt.want)
			}
			if color != phaseColors[tt.want] {
				t.Errorf("Current(%v) color = %v, want the %s color", tt.now, color, tt.want)
			}
		})
	}
}

func TestClockWithoutSunTimesIsAlwaysNight(t *testing.T) {
	clock := NewClock(nil)
	for _, h := range []int{0, 6, 12, 18, 23} {
		color, phase := clock.Current(time.Date(2026, 8, 25, h, 0, 0, 0, time.UTC))
		if phase != PhaseNight {
			t.Errorf("Hour %d: phase = %q, want night", h, phase)
		}
		if color != phaseColors[PhaseNight] {
			t.Errorf("Hour %d: color = %v, want the night color", h, color)
		}
	}
}

func TestPhaseColorsAreOpaque(t *testing.T) {
	for phase, c := range phaseColors {
		if c.A != 1.0 {
			t.Errorf("Phase %s has alpha %v, want fully opaque", phase, c.A)
		}
	}
}
