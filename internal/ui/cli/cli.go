// Package cli implements the command-line printing of layouts and of simulation summaries.
package cli

import (
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	"github.com/janpfeifer/hexcells/internal/parts"
	"golang.org/x/term"
	"io"
	"os"
	"regexp"
	"strings"
)

// UI prints layouts and summaries, optionally with colors.
type UI struct {
	color bool
}

// New creates a UI. If color is false, no ANSI sequences are printed.
func New(color bool) *UI {
	return &UI{color: color}
}

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len([]rune(ansiFilter.ReplaceAllString(s, "")))
}

// PrintCentered prints the block of lines centered in the terminal width. If stdout is not
// a terminal, it is printed without indentation.
func PrintCentered(w io.Writer, block string) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	terminalWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		terminalWidth = 0
	}
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max((terminalWidth-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			_, _ = fmt.Fprintln(w)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// palette of terminal colors used for the part kinds, indexed by the definition ID.
var palette = []lipgloss.Color{"15", "10", "9", "12", "11", "14", "13", "208", "141", "45"}

func (ui *UI) partStyle(def *parts.Definition) lipgloss.Style {
	style := lipgloss.NewStyle()
	if !ui.color {
		return style
	}
	style = style.Foreground(palette[def.ID()%len(palette)])
	if def.Protected {
		style = style.Bold(true)
	}
	return style
}

// displayRow returns the text row a position is printed in: columns are q, and odd columns
// are printed half a row lower.
func displayRow(h hexgrid.Hex) int {
	return h.R() + h.Q()>>1
}

// LayoutString renders the layout as text, one character per hex.
//
// Anchors are printed with the upper case letter of their kind and the remaining hexes of a
// part in lower case. Empty positions inside the bounding box are printed as ".".
func (ui *UI) LayoutString(l *parts.Layout) string {
	if l.Len() == 0 {
		return "(empty)\n"
	}
	type cell struct {
		placement *parts.Placement
		anchor    bool
	}
	cells := make(map[hexgrid.Hex]cell)
	first := true
	var minQ, maxQ, minRow, maxRow int
	for p := range l.All() {
		for _, h := range p.AbsoluteHexes() {
			cells[h] = cell{placement: p, anchor: h == p.Position}
			q, row := h.Q(), displayRow(h)
			if first {
				minQ, maxQ, minRow, maxRow = q, q, row, row
				first = false
			}
			minQ, maxQ = min(minQ, q), max(maxQ, q)
			minRow, maxRow = min(minRow, row), max(maxRow, row)
		}
	}

	var buf strings.Builder
	for row := minRow; row <= maxRow; row++ {
		for half := range 2 {
			var line strings.Builder
			for q := minQ; q <= maxQ; q++ {
				if q&1 != half {
					line.WriteString("  ")
					continue
				}
				h := hexgrid.Hex{q, row - q>>1}
				c, found := cells[h]
				if !found {
					line.WriteString(". ")
					continue
				}
				letter := c.placement.Definition.Letter
				if !c.anchor {
					letter = strings.ToLower(letter)
				}
				line.WriteString(ui.partStyle(c.placement.Definition).Render(letter))
				line.WriteString(" ")
			}
			buf.WriteString(strings.TrimRight(line.String(), " "))
			buf.WriteString("\n")
		}
	}
	return buf.String()
}

// PrintLayout prints the layout to w, see LayoutString.
func (ui *UI) PrintLayout(w io.Writer, l *parts.Layout) {
	_, _ = io.WriteString(w, ui.LayoutString(l))
}

// PrintLegend prints the letter used for each kind in the catalog.
func (ui *UI) PrintLegend(w io.Writer, catalog *parts.Catalog) {
	entries := make([]string, 0, catalog.Len())
	for _, def := range catalog.Definitions() {
		entries = append(entries, fmt.Sprintf("%s=%s", ui.partStyle(def).Render(def.Letter), def.Name))
	}
	_, _ = fmt.Fprintf(w, "Legend: %s\n", strings.Join(entries, ", "))
}

// Box renders the title and lines inside a rounded border.
func (ui *UI) Box(title string, lines []string) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(ui.color)
	if ui.color {
		style = style.BorderForeground(lipgloss.Color("13"))
		titleStyle = titleStyle.Foreground(lipgloss.Color("13"))
	}
	content := titleStyle.Render(title) + "\n\n" + strings.Join(lines, "\n")
	return style.Render(content)
}
