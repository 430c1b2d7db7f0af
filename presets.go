package pinflow

import (
	"strings"

	"github.com/mhpenta/pinflow/composite"
)

// Preset is a named color theme.
type Preset struct {
	Name  string
	Theme composite.Theme
}

var presets = []Preset{
	{Name: "Classic Red", Theme: composite.Theme{Band: "#ffffff", Text: "#1a1a1a", Accent: "#e60023", URL: "#666666"}},
	{Name: "Luxury Dark", Theme: composite.Theme{Band: "#1a1a1a", Text: "#ffffff", Accent: "#fbbf24", URL: "#cccccc"}},
	{Name: "Warm Boho", Theme: composite.Theme{Band: "#fdf6e3", Text: "#5c4033", Accent: "#d97706", URL: "#8c7366"}},
	{Name: "Fresh Nature", Theme: composite.Theme{Band: "#064e3b", Text: "#ffffff", Accent: "#34d399", URL: "#a7f3d0"}},
	{Name: "Modern Blue", Theme: composite.Theme{Band: "#1e3a8a", Text: "#ffffff", Accent: "#60a5fa", URL: "#bfdbfe"}},
}

// Presets returns the built-in themes. The first is the default.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName looks a preset up ignoring case and surrounding space.
func PresetByName(name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
