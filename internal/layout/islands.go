package layout

import (
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexcells/internal/generics"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
)

// IslandScratch holds the working memory of IslandHexesWith. The zero value is ready to use,
// and it can be reused across calls (and layouts) to avoid allocations.
type IslandScratch struct {
	footprint []hexgrid.Hex

	// occupied positions in the order of the elements, and the same as a set.
	ordered []hexgrid.Hex
	cache   generics.Set[hexgrid.Hex]

	visited generics.Set[hexgrid.Hex]

	// component being traversed (also the BFS queue), and the largest one found so far.
	component, largest []hexgrid.Hex
}

func (s *IslandScratch) reset() {
	if s.cache == nil {
		s.cache = generics.MakeSet[hexgrid.Hex]()
		s.visited = generics.MakeSet[hexgrid.Hex]()
	}
	s.cache.Reset()
	s.visited.Reset()
	s.ordered = s.ordered[:0]
	s.component = s.component[:0]
	s.largest = s.largest[:0]
}

// IslandHexes returns the positions that are not connected to the main cluster of the layout.
// It allocates, see IslandHexesWith.
func (l *Layout[T]) IslandHexes() generics.Set[hexgrid.Hex] {
	islands := generics.MakeSet[hexgrid.Hex]()
	var work IslandScratch
	l.IslandHexesWith(islands, &work)
	return islands
}

// IslandHexesWith resets islands and fills it with the occupied positions not connected (through
// adjacent occupied hexes) to the main cluster. It returns the number of island hexes.
//
// The main cluster is the largest connected component. Ties are broken in favour of the
// component holding the earliest element, so for a given layout the result is deterministic.
//
// It runs in time linear in the number of occupied hexes: adjacency is checked against a set of
// the occupied hexes, not against the elements. Once work has grown, it doesn't allocate.
//
// islands and work must not be nil.
func (l *Layout[T]) IslandHexesWith(islands generics.Set[hexgrid.Hex], work *IslandScratch) int {
	if islands == nil || work == nil {
		exceptions.Panicf("layout: IslandHexesWith requires a non-nil islands set and scratch")
	}
	islands.Reset()
	work.reset()
	for _, e := range l.elements {
		anchor := e.Anchor()
		work.footprint = e.AppendFootprint(work.footprint[:0])
		for _, relative := range work.footprint {
			h := anchor.Add(relative)
			work.ordered = append(work.ordered, h)
			work.cache.Insert(h)
		}
	}
	if len(work.cache) == 0 {
		return 0
	}

	// Breadth-first traversal of each component, seeded in element order.
	for _, seed := range work.ordered {
		if work.visited.Has(seed) {
			continue
		}
		component := append(work.component[:0], seed)
		work.visited.Insert(seed)
		for head := 0; head < len(component); head++ {
			for _, neighbour := range component[head].Neighbours() {
				if work.cache.Has(neighbour) && !work.visited.Has(neighbour) {
					work.visited.Insert(neighbour)
					component = append(component, neighbour)
				}
			}
		}
		if len(component) > len(work.largest) {
			work.largest, work.component = component, work.largest
		} else {
			work.component = component
		}
		if len(work.largest) == len(work.cache) || len(work.visited) == len(work.cache) {
			break
		}
	}
	if len(work.largest) == len(work.cache) {
		return 0
	}

	for h := range work.cache {
		islands.Insert(h)
	}
	islands.Delete(work.largest...)
	return len(islands)
}
