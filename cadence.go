package main

import (
	"strconv"
	"strings"
	"time"
)

// CadencePreset defines a capture cadence preset
type CadencePreset struct {
	Name        string
	Interval    time.Duration
	Description string // short description for UI
}

// Cadence presets from fastest to slowest
var CadencePresets = []CadencePreset{
	{Name: "Realtime", Interval: 0, Description: "back to back"},
	{Name: "Fast", Interval: 100 * time.Millisecond, Description: "10/s"},
	{Name: "Normal", Interval: 250 * time.Millisecond, Description: "4/s"},
	{Name: "Relaxed", Interval: time.Second, Description: "1/s"},
}

// DefaultCadenceIndex returns the index of the default cadence preset (Normal)
func DefaultCadenceIndex() int {
	return 2 // Normal
}

// ParseCadenceFlag parses the --cadence flag value and returns a preset index.
// Supports preset names (realtime, fast, normal, relaxed) and a bare
// millisecond value (250). Unknown values fall back to the default preset.
func ParseCadenceFlag(value string) int {
	value = strings.ToLower(strings.TrimSpace(value))

	for i := range CadencePresets {
		if strings.ToLower(CadencePresets[i].Name) == value {
			return i
		}
	}

	// Try to parse as milliseconds
	if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
		d := time.Duration(ms) * time.Millisecond
		for i := range CadencePresets {
			if CadencePresets[i].Interval == d {
				return i
			}
		}
	}

	// Default to Normal
	return DefaultCadenceIndex()
}
