package main

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolutionPreset defines a streaming grid preset
type ResolutionPreset struct {
	Name        string
	Width       int    // grid cells per row
	Height      int    // grid cells per column
	Description string // short description for UI
}

// Resolution presets from coarsest to finest
var ResolutionPresets = []ResolutionPreset{
	{Name: "Tiny", Width: 64, Height: 36, Description: "64x36"},
	{Name: "Grid", Width: 128, Height: 72, Description: "128x72"},
	{Name: "Fine", Width: 192, Height: 108, Description: "192x108"},
	{Name: "Dense", Width: 256, Height: 144, Description: "256x144"},
}

// DefaultResolutionIndex returns the index of the default resolution preset (Grid)
func DefaultResolutionIndex() int {
	return 1 // Grid
}

// ParseResolutionFlag parses the --resolution flag value and returns a preset index.
// Supports preset names (tiny, grid, fine, dense), a bare width (128) and
// the WxH form (128x72). Unknown values fall back to the default preset.
func ParseResolutionFlag(value string) int {
	value = strings.ToLower(strings.TrimSpace(value))

	for i := range ResolutionPresets {
		if strings.ToLower(ResolutionPresets[i].Name) == value {
			return i
		}
		if strings.ToLower(ResolutionPresets[i].Description) == value {
			return i
		}
	}

	// Try to parse as a bare width
	if width, err := strconv.Atoi(value); err == nil {
		for i := range ResolutionPresets {
			if ResolutionPresets[i].Width == width {
				return i
			}
		}
	}

	// Default to Grid
	return DefaultResolutionIndex()
}

// ResolutionLabel formats a preset for display
func ResolutionLabel(index int) string {
	if index < 0 || index >= len(ResolutionPresets) {
		index = DefaultResolutionIndex()
	}
	p := ResolutionPresets[index]
	return fmt.Sprintf("%s (%s)", p.Name, p.Description)
}
