// Package parts defines the kinds of cell parts that can be placed on a hex grid (Definition),
// the collections of kinds available (Catalog), and the record of a placed part (Placement).
//
// Definitions are immutable once added to a Catalog and shared by all layouts referencing
// them.
package parts

import (
	"fmt"
	"github.com/janpfeifer/hexcells/internal/generics"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	"github.com/pkg/errors"
	"strings"
)

// Definition describes a kind of part.
type Definition struct {
	// Name uniquely identifies the kind in its Catalog.
	Name string `yaml:"name"`

	// Letter used when printing layouts. Defaults to the first letter of Name.
	Letter string `yaml:"letter,omitempty"`

	// Hexes is the footprint of the part in its base orientation, relative to its anchor.
	// It must include the origin and be connected.
	Hexes []hexgrid.Hex `yaml:"hexes"`

	// Unique kinds can be placed at most once per layout.
	Unique bool `yaml:"unique,omitempty"`

	// Protected kinds are never deleted or replaced by mutations.
	Protected bool `yaml:"protected,omitempty"`

	// MajorUpgrade marks the kind representing a one-way structural transition. Mutations only
	// insert it through the upgrade chance, never as a random new kind.
	MajorUpgrade bool `yaml:"major_upgrade,omitempty"`

	// Weight is the relative chance of the kind being picked as a random new part.
	// Zero means never.
	Weight float64 `yaml:"weight,omitempty"`

	id      int
	rotated [hexgrid.NumRotations][]hexgrid.Hex
}

// ID is the index of the definition in its Catalog.
func (d *Definition) ID() int {
	return d.id
}

// String returns the name of the definition.
func (d *Definition) String() string {
	return d.Name
}

// Size is the number of hexes occupied.
func (d *Definition) Size() int {
	return len(d.Hexes)
}

// RotatedHexes returns the footprint rotated by the given number of 60° steps.
// The returned slice is shared and must not be modified.
func (d *Definition) RotatedHexes(rotation int) []hexgrid.Hex {
	return d.rotated[hexgrid.NormalizeRotation(rotation)]
}

// Eligible returns whether the definition can be chosen as a new random part, that is, not
// a MajorUpgrade and with a positive Weight.
func (d *Definition) Eligible() bool {
	return !d.MajorUpgrade && d.Weight > 0
}

// prepare validates the definition and precomputes the rotated footprints.
func (d *Definition) prepare(id int) error {
	if d.Name == "" {
		return errors.Errorf("part definition #%d has no name", id)
	}
	if len(d.Hexes) == 0 {
		return errors.Errorf("part %q has an empty footprint", d.Name)
	}
	if d.Weight < 0 {
		return errors.Errorf("part %q has negative weight %g", d.Name, d.Weight)
	}
	hexes := generics.SetWith(d.Hexes...)
	if hexes.Len() != len(d.Hexes) {
		return errors.Errorf("part %q has repeated hexes in its footprint %v", d.Name, d.Hexes)
	}
	if !hexes.Has(hexgrid.Origin) {
		return errors.Errorf("part %q footprint %v doesn't include the origin", d.Name, d.Hexes)
	}
	if !isConnected(d.Hexes, hexes) {
		return errors.Errorf("part %q footprint %v is not connected", d.Name, d.Hexes)
	}
	if d.Letter == "" {
		d.Letter = strings.ToUpper(d.Name[:1])
	}
	d.id = id
	for rotation := range hexgrid.NumRotations {
		rotated := make([]hexgrid.Hex, len(d.Hexes))
		for ii, h := range d.Hexes {
			rotated[ii] = h.RotateN(rotation)
		}
		d.rotated[rotation] = rotated
	}
	return nil
}

// isConnected returns whether all hexes can be reached from the first one through adjacent hexes.
func isConnected(hexes []hexgrid.Hex, set generics.Set[hexgrid.Hex]) bool {
	visited := generics.SetWith(hexes[0])
	toVisit := []hexgrid.Hex{hexes[0]}
	for len(toVisit) > 0 {
		h := toVisit[len(toVisit)-1]
		toVisit = toVisit[:len(toVisit)-1]
		for neighbour := range h.NeighboursIter() {
			if set.Has(neighbour) && !visited.Has(neighbour) {
				visited.Insert(neighbour)
				toVisit = append(toVisit, neighbour)
			}
		}
	}
	return visited.Len() == len(hexes)
}

// describe is used for debugging.
func (d *Definition) describe() string {
	var flags []string
	if d.Unique {
		flags = append(flags, "unique")
	}
	if d.Protected {
		flags = append(flags, "protected")
	}
	if d.MajorUpgrade {
		flags = append(flags, "upgrade")
	}
	return fmt.Sprintf("%s(%s, %d hexes, weight=%g, [%s])",
		d.Name, d.Letter, len(d.Hexes), d.Weight, strings.Join(flags, ","))
}
