package mutation

import (
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	"github.com/janpfeifer/hexcells/internal/parts"
	"math/rand/v2"
)

// MaxSearchRadius is how far, in hexes, from the existing parts new parts are searched for.
const MaxSearchRadius = 3

// FindPlacement searches a legal position for a new part of kind def, see Mutator.FindPlacement.
// It allocates new working buffers.
func FindPlacement(l *parts.Layout, def *parts.Definition, rng *rand.Rand) (*parts.Placement, bool) {
	var m Mutator
	return m.FindPlacement(l, def, rng)
}

// FindPlacement searches a legal position for a new part of kind def, radiating from the parts
// already in l: parts are visited in random order, and for each hex of their footprints the
// anchors 1 to MaxSearchRadius hexes away in each of the six directions are tried, with each
// of the six rotations. The first placement that doesn't overlap is returned, it is not added
// to l.
//
// On an empty layout the part is placed at the origin. If no position is found it returns
// false: this is not an error, the caller just gives up this part.
//
// Only the returned placement is allocated, a failed search doesn't allocate.
func (m *Mutator) FindPlacement(l *parts.Layout, def *parts.Definition, rng *rand.Rand) (*parts.Placement, bool) {
	if l.Len() == 0 {
		return parts.NewPlacement(def, hexgrid.Origin, 0), true
	}
	candidate := &m.candidate
	candidate.Definition = def
	defer func() { candidate.Definition = nil }()
	for _, idx := range m.shuffled(l.Len(), rng) {
		existing := l.At(idx)
		m.footprint = existing.AppendFootprint(m.footprint[:0])
		for _, relative := range m.footprint {
			h := existing.Position.Add(relative)
			for _, offset := range hexgrid.NeighbourOffsets {
				for radius := 1; radius <= MaxSearchRadius; radius++ {
					candidate.Position = h.Add(offset.Scale(radius))
					for rotation := range hexgrid.NumRotations {
						candidate.Rotation = rotation
						if l.CanPlaceWith(candidate, &m.candidateHexes, &m.existingHexes) {
							return candidate.Clone(), true
						}
					}
				}
			}
		}
	}
	return nil, false
}
