package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 palette shared by command output and the explore view.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(14)
)

// marker is a colored status glyph at the start of an output line.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markOK   = marker{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markFail = marker{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	markWarn = marker{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo = marker{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func (m marker) println(w io.Writer, text string) {
	fmt.Fprintln(w, m.style.Render(m.glyph)+" "+text)
}

func printSuccess(w io.Writer, format string, args ...any) {
	markOK.println(w, fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	markFail.println(w, fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	markWarn.println(w, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	markInfo.println(w, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats summarizes a graph as "3 nodes · 2 edges · 1 unresolved · cached".
// The unresolved count is left out when zero.
func printStats(w io.Writer, nodes, edges, unresolved int, cached bool) {
	fields := []string{plural(nodes, "node"), plural(edges, "edge")}
	if unresolved > 0 {
		fields = append(fields, fmt.Sprintf("%d unresolved", unresolved))
	}
	for i, f := range fields {
		fields[i] = StyleDim.Render(f)
	}
	if cached {
		fields = append(fields, markOK.style.Render("cached"))
	} else {
		fields = append(fields, markInfo.style.Render("fresh"))
	}
	fmt.Fprintln(w, "  "+strings.Join(fields, StyleDim.Render(" · ")))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// printNextStep suggests a follow-up command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
