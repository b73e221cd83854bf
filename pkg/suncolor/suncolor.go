// Package suncolor maps the time of day onto an ambient backdrop color
// for the viewer, using sunrise/sunset boundaries fetched once at startup.
package suncolor

import "time"

// Color is an RGBA value with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Phase names reported alongside the ambient color.
const (
	PhaseDawn      = "dawn"
	PhaseMorning   = "morning"
	PhaseAfternoon = "afternoon"
	PhaseDusk      = "dusk"
	PhaseNight     = "night"
)

var phaseColors = map[string]Color{
	PhaseDawn:      {R: 1.0, G: 0.6, B: 0.4, A: 1.0},
	PhaseMorning:   {R: 1.0, G: 0.92, B: 0.75, A: 1.0},
	PhaseAfternoon: {R: 0.88, G: 0.94, B: 1.0, A: 1.0},
	PhaseDusk:      {R: 0.85, G: 0.45, B: 0.55, A: 1.0},
	PhaseNight:     {R: 0.12, G: 0.12, B: 0.3, A: 1.0},
}

// SunTimes holds today's five sun-position boundaries, in chronological
// order. Fetched once at process start and read-only afterwards.
type SunTimes struct {
	AstronomicalDawn time.Time
	Sunrise          time.Time
	SolarNoon        time.Time
	Sunset           time.Time
	AstronomicalDusk time.Time
}

// Clock resolves the current ambient phase. A clock without sun times
// (fetch failed, or no location configured) always reports night.
type Clock struct {
	times *SunTimes
}

// NewClock returns a clock over the given boundaries; times may be nil.
func NewClock(times *SunTimes) *Clock {
	return &Clock{times: times}
}

// Current returns the ambient color and phase name for the given instant.
// Interval tests are half-open: an instant exactly on a boundary belongs
// to the later phase.
func (c *Clock) Current(now time.Time) (Color, string) {
	if c.times == nil {
		return phaseColors[PhaseNight], PhaseNight
	}
	t := c.times
	switch {
	case within(now, t.AstronomicalDawn, t.Sunrise):
		return phaseColors[PhaseDawn], PhaseDawn
	case within(now, t.Sunrise, t.SolarNoon):
		return phaseColors[PhaseMorning], PhaseMorning
	case within(now, t.SolarNoon, t.Sunset):
		return phaseColors[PhaseAfternoon], PhaseAfternoon
	case within(now, t.Sunset, t.AstronomicalDusk):
		return phaseColors[PhaseDusk], PhaseDusk
	default:
		return phaseColors[PhaseNight], PhaseNight
	}
}

// within reports start <= now < end.
func within(now, start, end time.Time) bool {
	return !now.Before(start) && now.Before(end)
}
