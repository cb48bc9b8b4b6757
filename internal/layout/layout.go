// Package layout implements Layout, an ordered collection of parts placed on a hexagonal grid.
//
// Layout is generic over the type of the placed element, any type that can report its anchor
// position and the hexes it occupies relative to it (see Placeable). It answers overlap,
// adjacency and connectivity questions about the placed elements.
//
// Queries called at high frequency (ElementAt, CanPlaceWith, IsTouchingExistingWith,
// ComputeHexCacheInto, IslandHexesWith) accept caller owned scratch buffers and don't
// allocate once the buffers have grown to the needed size. The variants without scratch
// buffers are for convenience and allocate on every call.
//
// A Layout is not safe for concurrent use.
package layout

import (
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexcells/internal/generics"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	"iter"
	"slices"
)

// Placeable is implemented by anything that can be placed on a Layout.
// It is usually a pointer type, so elements can be compared and removed.
type Placeable interface {
	comparable

	// Anchor is the absolute position the footprint is relative to.
	Anchor() hexgrid.Hex

	// AppendFootprint appends to dst the hexes occupied by the element, relative to its anchor
	// and already rotated, and returns the extended slice.
	AppendFootprint(dst []hexgrid.Hex) []hexgrid.Hex
}

// Layout is an ordered collection of placed elements.
//
// The insertion order has no effect on validity, but it is preserved for enumeration, and it
// is used to break ties deterministically (see IslandHexesWith).
type Layout[T Placeable] struct {
	elements []T
	events   *Events[T]
}

// New creates an empty Layout. If events is not nil, every element added or removed is
// reported there.
func New[T Placeable](events *Events[T]) *Layout[T] {
	return &Layout[T]{events: events}
}

// Len returns the number of elements in the layout.
func (l *Layout[T]) Len() int {
	return len(l.elements)
}

// At returns the element at the given index, in insertion order.
func (l *Layout[T]) At(idx int) T {
	return l.elements[idx]
}

// All iterates over the elements in insertion order.
//
// The layout must not be changed (Add/Remove) during the iteration, but the elements
// themselves may be.
func (l *Layout[T]) All() iter.Seq[T] {
	return slices.Values(l.elements)
}

// Elements returns a copy of the list of elements, in insertion order.
func (l *Layout[T]) Elements() []T {
	return slices.Clone(l.elements)
}

// IndexOf returns the index of element, or -1 if it is not in the layout.
func (l *Layout[T]) IndexOf(element T) int {
	return slices.Index(l.elements, element)
}

// checkScratch panics if the two buffers are the same, or share the same underlying storage.
func checkScratch(a, b *[]hexgrid.Hex) {
	if a == nil || b == nil {
		exceptions.Panicf("layout: scratch buffers must not be nil")
	}
	if a == b || (cap(*a) > 0 && cap(*b) > 0 && &(*a)[:1][0] == &(*b)[:1][0]) {
		exceptions.Panicf("layout: the same scratch buffer was given for the candidate and for the existing elements")
	}
}

// ElementAt returns the element occupying the absolute position h, if any.
//
// It does a linear scan of the elements, computing each footprint into scratch, which must not
// be nil. It doesn't allocate once scratch has grown to the largest footprint.
func (l *Layout[T]) ElementAt(h hexgrid.Hex, scratch *[]hexgrid.Hex) (element T, found bool) {
	for _, e := range l.elements {
		relative := h.Sub(e.Anchor())
		*scratch = e.AppendFootprint((*scratch)[:0])
		if slices.Contains(*scratch, relative) {
			return e, true
		}
	}
	return
}

// ContainsHex returns whether any element occupies the absolute position h. It allocates,
// see ElementAt for the version with a scratch buffer.
func (l *Layout[T]) ContainsHex(h hexgrid.Hex) bool {
	var scratch []hexgrid.Hex
	_, found := l.ElementAt(h, &scratch)
	return found
}

// CanPlace returns whether candidate can be added without overlapping any of the elements.
// It allocates, see CanPlaceWith.
func (l *Layout[T]) CanPlace(candidate T) bool {
	var candidateHexes, existingHexes []hexgrid.Hex
	return l.CanPlaceWith(candidate, &candidateHexes, &existingHexes)
}

// CanPlaceWith is like CanPlace, but uses the given scratch buffers: one for the footprint of
// the candidate, the other for the footprints of the existing elements.
//
// The two buffers must be distinct: passing the same buffer twice is a programming error and
// it panics.
func (l *Layout[T]) CanPlaceWith(candidate T, candidateHexes, existingHexes *[]hexgrid.Hex) bool {
	checkScratch(candidateHexes, existingHexes)
	anchor := candidate.Anchor()
	*candidateHexes = candidate.AppendFootprint((*candidateHexes)[:0])
	for _, relative := range *candidateHexes {
		if _, found := l.ElementAt(anchor.Add(relative), existingHexes); found {
			return false
		}
	}
	return true
}

// Add the candidate to the layout, if it doesn't overlap any of the elements.
// It returns false, and leaves the layout unchanged, otherwise.
//
// It allocates, see AddWith.
func (l *Layout[T]) Add(candidate T) bool {
	var candidateHexes, existingHexes []hexgrid.Hex
	return l.AddWith(candidate, &candidateHexes, &existingHexes)
}

// AddWith is like Add, but uses the given scratch buffers, see CanPlaceWith.
func (l *Layout[T]) AddWith(candidate T, candidateHexes, existingHexes *[]hexgrid.Hex) bool {
	if !l.CanPlaceWith(candidate, candidateHexes, existingHexes) {
		return false
	}
	l.append(candidate)
	return true
}

// ForceAdd appends the element without checking for overlaps. It is meant for
// rebuilding layouts that are known to be valid, and for last resort fallbacks.
func (l *Layout[T]) ForceAdd(element T) {
	l.append(element)
}

func (l *Layout[T]) append(element T) {
	l.elements = append(l.elements, element)
	l.events.push(Added, element)
}

// Remove the element from the layout. It returns false if the element was not in the layout.
func (l *Layout[T]) Remove(element T) bool {
	idx := l.IndexOf(element)
	if idx < 0 {
		return false
	}
	l.elements = slices.Delete(l.elements, idx, idx+1)
	l.events.push(Removed, element)
	return true
}

// Clear removes all elements, one at a time starting from the last, so a Removed event is
// reported for each of them.
func (l *Layout[T]) Clear() {
	for len(l.elements) > 0 {
		last := len(l.elements) - 1
		element := l.elements[last]
		var zero T
		l.elements[last] = zero
		l.elements = l.elements[:last]
		l.events.push(Removed, element)
	}
}

// IsTouchingExisting returns whether any hex of candidate's footprint is adjacent to a hex
// occupied by some other element. It doesn't check for overlaps, see CanPlace.
//
// It allocates, see IsTouchingExistingWith.
func (l *Layout[T]) IsTouchingExisting(candidate T) bool {
	var candidateHexes, existingHexes []hexgrid.Hex
	return l.IsTouchingExistingWith(candidate, &candidateHexes, &existingHexes)
}

// IsTouchingExistingWith is like IsTouchingExisting, but uses the given scratch buffers,
// which must be distinct, see CanPlaceWith.
//
// If candidate is itself in the layout, it is not considered as touching itself.
func (l *Layout[T]) IsTouchingExistingWith(candidate T, candidateHexes, existingHexes *[]hexgrid.Hex) bool {
	checkScratch(candidateHexes, existingHexes)
	anchor := candidate.Anchor()
	*candidateHexes = candidate.AppendFootprint((*candidateHexes)[:0])
	for _, relative := range *candidateHexes {
		h := anchor.Add(relative)
		for _, offset := range hexgrid.NeighbourOffsets {
			neighbour := h.Add(offset)
			if slices.Contains(*candidateHexes, neighbour.Sub(anchor)) {
				// Part of the candidate itself.
				continue
			}
			if element, found := l.ElementAt(neighbour, existingHexes); found && element != candidate {
				return true
			}
		}
	}
	return false
}

// ComputeHexCache returns the set of all absolute positions occupied by the elements.
// It allocates, see ComputeHexCacheInto.
func (l *Layout[T]) ComputeHexCache() generics.Set[hexgrid.Hex] {
	cache := generics.MakeSet[hexgrid.Hex]()
	var footprint []hexgrid.Hex
	l.ComputeHexCacheInto(cache, &footprint)
	return cache
}

// ComputeHexCacheInto resets cache and fills it with all absolute positions occupied by the
// elements. footprint is a scratch buffer. Neither can be nil.
func (l *Layout[T]) ComputeHexCacheInto(cache generics.Set[hexgrid.Hex], footprint *[]hexgrid.Hex) {
	if cache == nil || footprint == nil {
		exceptions.Panicf("layout: ComputeHexCacheInto requires a non-nil cache set and footprint buffer")
	}
	cache.Reset()
	for _, e := range l.elements {
		anchor := e.Anchor()
		*footprint = e.AppendFootprint((*footprint)[:0])
		for _, relative := range *footprint {
			cache.Insert(anchor.Add(relative))
		}
	}
}
