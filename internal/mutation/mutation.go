// Package mutation implements the structural mutation of cell part layouts: given a parent
// layout it builds a child layout with parts deleted, replaced and inserted at random, and
// repairs the result so it is never empty and always connected.
//
// All randomness comes from the *rand.Rand given to each call, so a seeded generator
// reproduces the same children. Parents are never modified.
package mutation

import (
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexcells/internal/generics"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	"github.com/janpfeifer/hexcells/internal/layout"
	"github.com/janpfeifer/hexcells/internal/parts"
	"k8s.io/klog/v2"
	"math"
	"math/rand/v2"
)

// Stats of what happened during one call to Mutate.
type Stats struct {
	// Deleted parent parts, not copied to the child.
	Deleted int

	// Replaced parent parts, copied with a different kind.
	Replaced int

	// Relocated parent parts, that didn't fit at their original position (after a replacement).
	Relocated int

	// Dropped parent parts, for which no position was found at all.
	Dropped int

	// Inserted new parts, and Abandoned insertions for which no position was found.
	Inserted, Abandoned int

	// Upgraded is set if the major upgrade kind was inserted.
	Upgraded bool

	// ForcedNonEmpty is set if the child would have been empty and the first parent part was
	// copied as a fallback.
	ForcedNonEmpty bool

	// RepairIterations is the number of translations applied to reconnect islands.
	RepairIterations int
}

// Mutator holds the configuration and the working buffers used by the mutations.
//
// It can be reused for any number of calls. Once its buffers have grown, the only allocations
// of a call are the child layout and its placements. It is not safe for concurrent use: use one
// Mutator per goroutine.
type Mutator struct {
	Catalog *parts.Catalog
	Rates   Rates

	candidateHexes, existingHexes, footprint []hexgrid.Hex
	ordered                                  []hexgrid.Hex
	duplicable                               []*parts.Definition
	perm                                     []int

	// candidate is the placement moved around by FindPlacement, it is cloned when found.
	candidate parts.Placement

	// kindFilter is created by newKindFilter, for the parent and child being mutated.
	kindFilter                func(def *parts.Definition) bool
	filterParent, filterChild *parts.Layout

	islands    generics.Set[hexgrid.Hex]
	islandWork layout.IslandScratch
}

// NewMutator creates a Mutator for the given catalog and rates.
func NewMutator(catalog *parts.Catalog, rates Rates) *Mutator {
	return &Mutator{Catalog: catalog, Rates: rates}
}

// Mutate builds a mutated child of parent, see Mutator.Mutate.
// It allocates new working buffers, use a Mutator to reuse them.
func Mutate(parent *parts.Layout, catalog *parts.Catalog, rates Rates, rng *rand.Rand) (child *parts.Layout, stats Stats) {
	return NewMutator(catalog, rates).Mutate(parent, rng)
}

// Mutate builds a new child layout from parent, which is not changed.
//
// In order:
//
//  1. Each parent part is copied, except non-protected parts may be deleted (with chance
//     Rates.Deletion/sqrt(parent.Len())) or replaced by a random kind (Rates.Replacement).
//     A copy that doesn't fit is moved to a nearby position.
//  2. Rates.InsertionTrials independent draws, each inserting a new part with chance
//     Rates.Creation: a random kind with chance Rates.NewKind, otherwise a duplicate of a
//     non-unique kind of the parent.
//  3. With chance Rates.Upgrade the catalog's major upgrade kind is inserted, if not present.
//  4. If the child is empty, the first parent part is copied.
//  5. Islands are translated towards the main cluster until the child is connected.
//
// The child is never empty and it has no islands. The parent must not be empty, and if
// Rates.RequireProtected is set it must have at least one protected part: both are contract
// violations and panic.
func (m *Mutator) Mutate(parent *parts.Layout, rng *rand.Rand) (child *parts.Layout, stats Stats) {
	if parent.Len() == 0 {
		exceptions.Panicf("mutation: cannot mutate an empty layout")
	}
	if m.Rates.RequireProtected && !hasProtected(parent) {
		exceptions.Panicf("mutation: parent layout has no protected part: %v", parts.Flatten(parent))
	}
	child = parts.NewLayout(nil)
	m.filterParent, m.filterChild = parent, child
	defer func() { m.filterParent, m.filterChild = nil, nil }()
	m.copyParent(parent, child, rng, &stats)
	m.insertParts(parent, child, rng, &stats)

	if upgrade := m.Catalog.MajorUpgrade(); upgrade != nil && rng.Float64() < m.Rates.Upgrade && !parts.Contains(child, upgrade) {
		if p, found := m.FindPlacement(child, upgrade, rng); found {
			child.ForceAdd(p)
			stats.Upgraded = true
		} else if klog.V(2).Enabled() {
			klog.Infof("mutation: no position found for upgrade %s", upgrade)
		}
	}

	if child.Len() == 0 {
		first := parent.At(0).Clone()
		if !child.AddWith(first, &m.candidateHexes, &m.existingHexes) {
			child.ForceAdd(first)
		}
		stats.ForcedNonEmpty = true
		if klog.V(1).Enabled() {
			klog.Infof("mutation: all parts were removed, kept %s", first)
		}
	}

	stats.RepairIterations = m.RepairIslands(child)
	if klog.V(2).Enabled() {
		klog.Infof("mutation: %d parts -> %d parts, %+v", parent.Len(), child.Len(), stats)
	}
	return
}

func hasProtected(l *parts.Layout) bool {
	for ii := range l.Len() {
		if l.At(ii).Definition.Protected {
			return true
		}
	}
	return false
}

// newKindFilter returns the filter of kinds that can be added to the child being mutated:
// unique kinds can't be used if they are already in the parent or in the child.
// The filter is created once per Mutator.
func (m *Mutator) newKindFilter() func(def *parts.Definition) bool {
	if m.kindFilter == nil {
		m.kindFilter = func(def *parts.Definition) bool {
			return !def.Unique || (!parts.Contains(m.filterParent, def) && !parts.Contains(m.filterChild, def))
		}
	}
	return m.kindFilter
}

// shuffled returns the indices 0..n-1 in random order, in a buffer owned by the Mutator.
func (m *Mutator) shuffled(n int, rng *rand.Rand) []int {
	perm := m.perm[:0]
	for ii := range n {
		perm = append(perm, ii)
	}
	rng.Shuffle(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	m.perm = perm
	return perm
}

// copyParent is the first step of Mutate: copy, delete or replace each of the parent parts.
func (m *Mutator) copyParent(parent, child *parts.Layout, rng *rand.Rand, stats *Stats) {
	deletionChance := m.Rates.Deletion / math.Sqrt(float64(parent.Len()))
	filter := m.newKindFilter()
	for ii := range parent.Len() {
		p := parent.At(ii)
		def := p.Definition
		if !def.Protected {
			if rng.Float64() < deletionChance {
				stats.Deleted++
				continue
			}
			if rng.Float64() < m.Rates.Replacement {
				if replacement := m.Catalog.RandomKind(rng, filter); replacement != nil && replacement != def {
					def = replacement
					stats.Replaced++
				}
			}
		}

		record := parts.NewPlacement(def, p.Position, p.Rotation)
		if child.AddWith(record, &m.candidateHexes, &m.existingHexes) {
			continue
		}
		if m.placeNearby(child, record) {
			stats.Relocated++
			continue
		}
		if found, ok := m.FindPlacement(child, def, rng); ok {
			child.ForceAdd(found)
			stats.Relocated++
			continue
		}
		stats.Dropped++
		if klog.V(2).Enabled() {
			klog.Infof("mutation: dropped %s, no position found", record)
		}
	}
}

// placeNearby tries to add record with a different rotation at the same position, and
// then at positions up to MaxSearchRadius away. If it fails record is left unchanged.
func (m *Mutator) placeNearby(child *parts.Layout, record *parts.Placement) bool {
	position, rotation := record.Position, record.Rotation
	for step := 1; step < hexgrid.NumRotations; step++ {
		record.Rotation = hexgrid.NormalizeRotation(rotation + step)
		if child.AddWith(record, &m.candidateHexes, &m.existingHexes) {
			return true
		}
	}
	for radius := 1; radius <= MaxSearchRadius; radius++ {
		for _, offset := range hexgrid.NeighbourOffsets {
			record.Position = position.Add(offset.Scale(radius))
			for step := range hexgrid.NumRotations {
				record.Rotation = hexgrid.NormalizeRotation(rotation + step)
				if child.AddWith(record, &m.candidateHexes, &m.existingHexes) {
					return true
				}
			}
		}
	}
	record.Position, record.Rotation = position, rotation
	return false
}

// insertParts is the second step of Mutate.
func (m *Mutator) insertParts(parent, child *parts.Layout, rng *rand.Rand, stats *Stats) {
	// Kinds that can be duplicated, in parent order.
	m.duplicable = m.duplicable[:0]
	for ii := range parent.Len() {
		def := parent.At(ii).Definition
		if def.Unique || def.MajorUpgrade {
			continue
		}
		duplicate := false
		for _, seen := range m.duplicable {
			if seen == def {
				duplicate = true
				break
			}
		}
		if !duplicate {
			m.duplicable = append(m.duplicable, def)
		}
	}

	filter := m.newKindFilter()
	for range m.Rates.InsertionTrials {
		if rng.Float64() >= m.Rates.Creation {
			continue
		}
		var def *parts.Definition
		if len(m.duplicable) == 0 || rng.Float64() < m.Rates.NewKind {
			def = m.Catalog.RandomKind(rng, filter)
		} else {
			def = m.duplicable[rng.IntN(len(m.duplicable))]
		}
		if def == nil {
			stats.Abandoned++
			continue
		}
		p, found := m.FindPlacement(child, def, rng)
		if !found {
			stats.Abandoned++
			if klog.V(2).Enabled() {
				klog.Infof("mutation: abandoned insertion of %s, no position found", def)
			}
			continue
		}
		child.ForceAdd(p)
		stats.Inserted++
	}
}
