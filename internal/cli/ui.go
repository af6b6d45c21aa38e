package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/vizbind/pkg/pipeline"
)

var (
	colorCyan   = lipgloss.Color("36")  // Primary
	colorGreen  = lipgloss.Color("35")  // Success, entering marks
	colorYellow = lipgloss.Color("220") // Warnings
	colorRed    = lipgloss.Color("167") // Errors, exiting marks
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printStats(res *pipeline.Result) {
	fmt.Println(statsLine(res))
}

// statsLine summarizes a run on one line, e.g.
// "3 frames · 42 marks · 118 commands · fresh".
func statsLine(res *pipeline.Result) string {
	var parts []string
	if res.Stats.Frames > 0 {
		parts = append(parts, fmt.Sprintf("%d frames", res.Stats.Frames))
	}
	if res.Stats.Marks > 0 {
		parts = append(parts, fmt.Sprintf("%d marks", res.Stats.Marks))
	}
	if res.Stats.Commands > 0 {
		parts = append(parts, fmt.Sprintf("%d commands", res.Stats.Commands))
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	if res.CacheHit {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleComputed.Render(iconFresh))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}
