package parts

import (
	"fmt"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	"github.com/janpfeifer/hexcells/internal/layout"
	"github.com/pkg/errors"
)

// Placement is a part placed on a layout: a kind, an anchor position and a rotation.
type Placement struct {
	Definition *Definition
	Position   hexgrid.Hex

	// Rotation in steps of 60° clockwise, from 0 to 5.
	Rotation int
}

// Assert *Placement can be placed on a layout.
var _ = layout.New[*Placement]

// NewPlacement creates a Placement, normalizing the rotation to 0..5.
func NewPlacement(def *Definition, position hexgrid.Hex, rotation int) *Placement {
	return &Placement{Definition: def, Position: position, Rotation: hexgrid.NormalizeRotation(rotation)}
}

// Anchor implements layout.Placeable.
func (p *Placement) Anchor() hexgrid.Hex {
	return p.Position
}

// AppendFootprint implements layout.Placeable.
func (p *Placement) AppendFootprint(dst []hexgrid.Hex) []hexgrid.Hex {
	return append(dst, p.Definition.RotatedHexes(p.Rotation)...)
}

// AbsoluteHexes returns a newly allocated slice with the positions occupied by the part.
func (p *Placement) AbsoluteHexes() []hexgrid.Hex {
	hexes := p.AppendFootprint(nil)
	for ii := range hexes {
		hexes[ii] = hexes[ii].Add(p.Position)
	}
	return hexes
}

// Clone returns a copy of the placement, sharing the same Definition.
func (p *Placement) Clone() *Placement {
	c := *p
	return &c
}

// String returns a text representation of the placement.
func (p *Placement) String() string {
	return fmt.Sprintf("%s@%s/%d", p.Definition.Name, p.Position, p.Rotation)
}

// Layout of cell parts.
type Layout = layout.Layout[*Placement]

// Events reported by a Layout of cell parts.
type Events = layout.Events[*Placement]

// NewLayout creates an empty Layout of cell parts. events can be nil.
func NewLayout(events *Events) *Layout {
	return layout.New(events)
}

// Clone returns a deep copy of l: the placements are copied, the definitions are shared.
// The new layout reports to events, which can be nil.
func Clone(l *Layout, events *Events) *Layout {
	c := NewLayout(events)
	for p := range l.All() {
		c.ForceAdd(p.Clone())
	}
	return c
}

// Contains returns whether any placement in the layout is of the given kind.
func Contains(l *Layout, def *Definition) bool {
	return Count(l, def) > 0
}

// Count returns the number of placements of the given kind.
func Count(l *Layout, def *Definition) (count int) {
	for ii := range l.Len() {
		if l.At(ii).Definition == def {
			count++
		}
	}
	return
}

// NumHexes returns the total number of hexes occupied by the placements.
func NumHexes(l *Layout) (count int) {
	for p := range l.All() {
		count += p.Definition.Size()
	}
	return
}

// Triple is the flattened form of a Placement, referencing the kind by name.
type Triple struct {
	Kind     string `yaml:"kind" json:"kind"`
	Q        int    `yaml:"q" json:"q"`
	R        int    `yaml:"r" json:"r"`
	Rotation int    `yaml:"rotation" json:"rotation"`
}

// Flatten returns the list of placements of l as triples, in order.
func Flatten(l *Layout) []Triple {
	triples := make([]Triple, 0, l.Len())
	for p := range l.All() {
		triples = append(triples, Triple{Kind: p.Definition.Name, Q: p.Position.Q(), R: p.Position.R(), Rotation: p.Rotation})
	}
	return triples
}

// FromTriples rebuilds a layout from its flattened form, see Flatten.
//
// It returns an error if a kind is not in the catalog, if a unique kind is repeated, or if
// placements overlap.
func FromTriples(catalog *Catalog, triples []Triple, events *Events) (*Layout, error) {
	l := NewLayout(events)
	var candidateHexes, existingHexes []hexgrid.Hex
	for ii, triple := range triples {
		def := catalog.ByName(triple.Kind)
		if def == nil {
			return nil, errors.Errorf("placement #%d: unknown part kind %q", ii, triple.Kind)
		}
		if def.Unique && Contains(l, def) {
			return nil, errors.Errorf("placement #%d: unique part kind %q used more than once", ii, triple.Kind)
		}
		p := NewPlacement(def, hexgrid.Hex{triple.Q, triple.R}, triple.Rotation)
		if !l.AddWith(p, &candidateHexes, &existingHexes) {
			return nil, errors.Errorf("placement #%d: %s overlaps previous parts", ii, p)
		}
	}
	return l, nil
}
