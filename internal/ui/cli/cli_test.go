package cli

import (
	"bytes"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	"github.com/janpfeifer/hexcells/internal/parts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestLayoutString(t *testing.T) {
	catalog := parts.DefaultCatalog()
	l := parts.NewLayout(nil)
	require.True(t, l.Add(parts.NewPlacement(catalog.ByName("core"), hexgrid.Hex{0, 0}, 0)))
	require.True(t, l.Add(parts.NewPlacement(catalog.ByName("mitochondrion"), hexgrid.Hex{1, 0}, 0)))

	ui := New(false)
	var buf bytes.Buffer
	ui.PrintLayout(&buf, l)
	got := buf.String()
	want := "K\n  M\n.\n  m\n"
	assert.Equal(t, want, got)

	assert.Equal(t, "(empty)\n", ui.LayoutString(parts.NewLayout(nil)))
}

func TestPrintLegendAndBox(t *testing.T) {
	ui := New(false)
	var buf bytes.Buffer
	ui.PrintLegend(&buf, parts.DefaultCatalog())
	assert.Contains(t, buf.String(), "K=core")
	assert.Contains(t, buf.String(), "N=nucleus")

	box := ui.Box("Summary", []string{"generations: 3"})
	assert.Contains(t, box, "Summary")
	assert.Contains(t, box, "generations: 3")
}

func TestPrintCentered(t *testing.T) {
	var buf bytes.Buffer
	PrintCentered(&buf, "ab\n\ncd\n")
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ab", strings.TrimSpace(lines[0]))
	assert.Equal(t, "", lines[1])
	assert.Equal(t, 2, displayWidth("\x1b[1mcd\x1b[0m"))
}
