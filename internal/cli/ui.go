package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/treemap/pkg/pipeline"
)

// Terminal palette (ANSI 256).
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleLink  = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim   = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleWarn        = lipgloss.NewStyle().Foreground(colorWarn)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// statusLine is one icon-prefixed line of command output.
type statusLine struct {
	icon  string
	style lipgloss.Style
}

var (
	lineSuccess = statusLine{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	lineError   = statusLine{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	lineWarning = statusLine{"!", styleWarn}
	lineInfo    = statusLine{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// stdout receives all human-facing command output. Logs go to the logger's
// writer instead.
var stdout io.Writer = os.Stdout

func (l statusLine) print(msg string) {
	fmt.Fprintln(stdout, l.style.Render(l.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { lineSuccess.print(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { lineError.print(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { lineInfo.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	lineWarning.print(styleWarn.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats summarizes a render on one line, e.g.
// "3 rows · 6 cells · cached".
func printStats(stats pipeline.Stats, cached bool) {
	var parts []string
	if stats.Rows > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d rows", stats.Rows)))
	}
	if stats.Cells > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d cells", stats.Cells)))
	}
	if stats.Duplicates > 0 {
		parts = append(parts, styleWarn.Render(fmt.Sprintf("%d duplicates", stats.Duplicates)))
	}
	if cached {
		parts = append(parts, lineSuccess.style.Render("cached"))
	} else {
		parts = append(parts, lineInfo.style.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+lipgloss.NewStyle().Foreground(colorLink).Render(cmd))
}
