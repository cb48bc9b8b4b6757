package mutation

import (
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexcells/internal/generics"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	"github.com/janpfeifer/hexcells/internal/parts"
	"k8s.io/klog/v2"
)

// RepairIterationLimit is the maximum number of translations RepairIslands applies before
// giving up with a panic. Each translation reduces either the number of connected components
// or the distance of the closest island to the main cluster, so valid layouts converge in far
// fewer iterations.
const RepairIterationLimit = 1000

// RepairIslands connects the layout, see Mutator.RepairIslands. It allocates new working buffers.
func RepairIslands(l *parts.Layout) int {
	var m Mutator
	return m.RepairIslands(l)
}

// RepairIslands moves the parts not connected to the main cluster of l (see
// layout.Layout.IslandHexesWith) until there are no islands left. It returns the number of
// translations applied.
//
// At each iteration the island hex closest to the main cluster is found, and all the island
// parts are translated together towards it by Translation. The translation is shorter than
// the closest distance, so no overlaps are created.
func (m *Mutator) RepairIslands(l *parts.Layout) (iterations int) {
	if m.islands == nil {
		m.islands = generics.MakeSet[hexgrid.Hex]()
	}
	for l.IslandHexesWith(m.islands, &m.islandWork) > 0 {
		if iterations >= RepairIterationLimit {
			exceptions.Panicf("mutation: layout still has %d island hexes after %d repair iterations: %v",
				len(m.islands), iterations, parts.Flatten(l))
		}
		iterations++

		// Closest (island, main) pair, the first one in the order of the parts.
		m.ordered = m.ordered[:0]
		for ii := range l.Len() {
			p := l.At(ii)
			m.footprint = p.AppendFootprint(m.footprint[:0])
			for _, relative := range m.footprint {
				m.ordered = append(m.ordered, p.Position.Add(relative))
			}
		}
		bestDistance := -1
		var islandHex, mainHex hexgrid.Hex
		for _, island := range m.ordered {
			if !m.islands.Has(island) {
				continue
			}
			for _, other := range m.ordered {
				if m.islands.Has(other) {
					continue
				}
				if d := hexgrid.Distance(island, other); bestDistance < 0 || d < bestDistance {
					bestDistance, islandHex, mainHex = d, island, other
				}
			}
		}

		translation := Translation(islandHex, mainHex)
		if klog.V(3).Enabled() {
			klog.Infof("mutation: repair #%d: %d island hexes, closest %s at distance %d from %s, translation %s",
				iterations, len(m.islands), islandHex, bestDistance, mainHex, translation)
		}
		// Parts have connected footprints including their anchor, so the anchor tells whether the
		// whole part is an island.
		for ii := range l.Len() {
			if p := l.At(ii); m.islands.Has(p.Position) {
				p.Position = p.Position.Sub(translation)
			}
		}
	}
	return
}

// Translation returns the vector to subtract from islandHex to move it towards mainHex.
//
// With v = islandHex - mainHex and d = |v|, it is v scaled by (d-1)/d, each component
// truncated towards zero: it moves the island most of the way, but never onto mainHex.
// If that translation is zero, or if it doesn't bring islandHex closer to mainHex, the unit
// step that does is used instead (the first one in hexgrid.Sides order).
//
// The result has length at most d-1, and islandHex minus the result is strictly closer to
// mainHex. If islandHex == mainHex it returns the zero vector.
func Translation(islandHex, mainHex hexgrid.Hex) hexgrid.Hex {
	v := islandHex.Sub(mainHex)
	d := v.Length()
	if d == 0 {
		return hexgrid.Hex{}
	}
	t := hexgrid.Hex{v.Q() * (d - 1) / d, v.R() * (d - 1) / d}
	if !t.IsZero() && v.Sub(t).Length() < d {
		return t
	}
	best := hexgrid.Hex{}
	bestLength := -1
	for _, side := range hexgrid.Sides {
		step := side.Offset()
		if length := v.Sub(step).Length(); bestLength < 0 || length < bestLength {
			best, bestLength = step, length
		}
	}
	return best
}
