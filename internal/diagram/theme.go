package diagram

import (
	"sort"
	"strings"

	"github.com/rendis/procmap/pkg/schema"
)

// DefaultTheme is used when neither the configuration nor the process names one.
const DefaultTheme = "DEFAULT"

// Theme is a named color scheme applied by every renderer.
type Theme struct {
	Name       string
	FontName   string
	Background string
	TitleFont  string

	PoolFill   string
	PoolBorder string
	LaneFill   string
	LaneBorder string
	LaneFont   string

	TaskFill      string
	TaskBorder    string
	TaskFont      string
	EventFill     string
	EventBorder   string
	GatewayFill   string
	GatewayBorder string

	EdgeColor string
	EdgeFont  string
}

var themes = map[string]Theme{
	"DEFAULT": {
		Name: "DEFAULT", FontName: "Helvetica", Background: "white", TitleFont: "black",
		PoolFill: "#ffffff", PoolBorder: "#000000",
		LaneFill: "#f5f5f5", LaneBorder: "#000000", LaneFont: "black",
		TaskFill: "#ffffff", TaskBorder: "#000000", TaskFont: "black",
		EventFill: "#ffffff", EventBorder: "#000000",
		GatewayFill: "#ffffff", GatewayBorder: "#000000",
		EdgeColor: "#000000", EdgeFont: "black",
	},
	"GREYWOOF": {
		Name: "GREYWOOF", FontName: "Helvetica", Background: "#ffffff", TitleFont: "#3c3c3c",
		PoolFill: "#e6e6e6", PoolBorder: "#5a5a5a",
		LaneFill: "#f2f2f2", LaneBorder: "#8c8c8c", LaneFont: "#3c3c3c",
		TaskFill: "#d9d9d9", TaskBorder: "#595959", TaskFont: "#262626",
		EventFill: "#bfbfbf", EventBorder: "#404040",
		GatewayFill: "#cccccc", GatewayBorder: "#404040",
		EdgeColor: "#595959", EdgeFont: "#404040",
	},
	"BLUEMOUNTAIN": {
		Name: "BLUEMOUNTAIN", FontName: "Helvetica", Background: "#ffffff", TitleFont: "#1b365d",
		PoolFill: "#dbe7f3", PoolBorder: "#1b365d",
		LaneFill: "#eef4fa", LaneBorder: "#4a6fa5", LaneFont: "#1b365d",
		TaskFill: "#c6dbef", TaskBorder: "#2c5a8c", TaskFont: "#0b2545",
		EventFill: "#9ecae1", EventBorder: "#1b365d",
		GatewayFill: "#deebf7", GatewayBorder: "#1b365d",
		EdgeColor: "#2c5a8c", EdgeFont: "#1b365d",
	},
	"ORANGEPEEL": {
		Name: "ORANGEPEEL", FontName: "Helvetica", Background: "#ffffff", TitleFont: "#7f3b08",
		PoolFill: "#fee6ce", PoolBorder: "#a63603",
		LaneFill: "#fff5eb", LaneBorder: "#e6550d", LaneFont: "#7f3b08",
		TaskFill: "#fdd0a2", TaskBorder: "#d94801", TaskFont: "#4d2104",
		EventFill: "#fdae6b", EventBorder: "#a63603",
		GatewayFill: "#fee6ce", GatewayBorder: "#a63603",
		EdgeColor: "#a63603", EdgeFont: "#7f3b08",
	},
}

// LookupTheme resolves a theme by name, ignoring case. An empty name yields
// DefaultTheme.
func LookupTheme(name string) (Theme, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		key = DefaultTheme
	}
	t, ok := themes[key]
	if !ok {
		return Theme{}, schema.NewErrorf(schema.ErrCodeConfig, "unknown theme %q", name).
			WithDetails(map[string]any{"available": ThemeNames()})
	}
	return t, nil
}

// ThemeNames returns all theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
