// Package partstest provides helper functions to create tests using layouts of cell parts.
package partstest

import (
	"fmt"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	. "github.com/janpfeifer/hexcells/internal/parts"
	"github.com/janpfeifer/hexcells/internal/ui/cli"
	"os"
)

// PartOnGrid describes a placement by the name of its kind.
type PartOnGrid struct {
	Kind     string
	Pos      hexgrid.Hex
	Rotation int
}

// BuildLayout from a collection of parts, using the given catalog. It panics if a kind is
// unknown or if parts overlap: the layouts are supposed to be valid.
func BuildLayout(catalog *Catalog, parts []PartOnGrid) *Layout {
	l := NewLayout(nil)
	for _, p := range parts {
		def := catalog.ByName(p.Kind)
		if def == nil {
			panic(fmt.Sprintf("unknown part kind %q in %s", p.Kind, catalog))
		}
		placement := NewPlacement(def, p.Pos, p.Rotation)
		if !l.Add(placement) {
			panic(fmt.Sprintf("part %s overlaps previous parts", placement))
		}
	}
	return l
}

// PrintLayout prints the layout to stdout, without colors. Used for debugging tests.
func PrintLayout(l *Layout) {
	cli.New(false).PrintLayout(os.Stdout, l)
}
