package layout_test

import (
	"fmt"
	"github.com/gomlx/exceptions"
	. "github.com/janpfeifer/hexcells/internal/hexgrid"
	"github.com/janpfeifer/hexcells/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

// piece is a minimal layout.Placeable used in the tests.
type piece struct {
	name     string
	pos      Hex
	shape    []Hex
	rotation int
}

func (p *piece) Anchor() Hex { return p.pos }

func (p *piece) AppendFootprint(dst []Hex) []Hex {
	for _, h := range p.shape {
		dst = append(dst, h.RotateN(p.rotation))
	}
	return dst
}

func (p *piece) String() string { return fmt.Sprintf("%s@%s", p.name, p.pos) }

var (
	single = []Hex{{0, 0}}
	pair   = []Hex{{0, 0}, {0, 1}}
	tri    = []Hex{{0, 0}, {1, 0}, {0, 1}}
)

func newPiece(name string, pos Hex, shape []Hex, rotation int) *piece {
	return &piece{name: name, pos: pos, shape: shape, rotation: rotation}
}

func TestAddAndCanPlace(t *testing.T) {
	events := &layout.Events[*piece]{}
	l := layout.New(events)

	a := newPiece("a", Hex{0, 0}, pair, 0)
	require.True(t, l.CanPlace(a))
	require.True(t, l.Add(a))
	require.Equal(t, 1, l.Len())

	// Placement idempotence: the same footprint can't be placed twice.
	require.False(t, l.CanPlace(a))
	duplicate := newPiece("dup", Hex{0, 0}, pair, 0)
	require.False(t, l.CanPlace(duplicate))
	require.False(t, l.Add(duplicate))
	require.Equal(t, 1, l.Len())

	// Overlap in a single hex, after rotation: pair rotated 3 times occupies {0,0} and {0,-1}.
	b := newPiece("b", Hex{0, 2}, pair, 3)
	require.False(t, l.Add(b), "b occupies (0, 1), same as a")
	b.rotation = 0
	require.True(t, l.Add(b))

	got := events.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, layout.Added, got[0].Kind)
	assert.Equal(t, a, got[0].Element)
	assert.Equal(t, b, got[1].Element)
	assert.Equal(t, 0, events.Len())
	assert.Equal(t, []*piece{a, b}, l.Elements())
}

func TestElementAt(t *testing.T) {
	l := layout.New[*piece](nil)
	a := newPiece("a", Hex{2, 2}, tri, 1)
	require.True(t, l.Add(a))
	var scratch []Hex

	// tri rotated once: {0,0}, {0,1}, {-1,1}.
	for _, h := range []Hex{{2, 2}, {2, 3}, {1, 3}} {
		element, found := l.ElementAt(h, &scratch)
		require.True(t, found, "position %s", h)
		require.Equal(t, a, element)
	}
	for _, h := range []Hex{{3, 2}, {0, 0}, {1, 2}} {
		_, found := l.ElementAt(h, &scratch)
		require.False(t, found, "position %s", h)
		require.False(t, l.ContainsHex(h))
	}
}

func TestRemoveAndClear(t *testing.T) {
	events := &layout.Events[*piece]{}
	l := layout.New(events)
	pieces := []*piece{
		newPiece("a", Hex{0, 0}, single, 0),
		newPiece("b", Hex{1, 0}, single, 0),
		newPiece("c", Hex{2, 0}, single, 0),
	}
	for _, p := range pieces {
		require.True(t, l.Add(p))
	}
	events.Drain()

	require.True(t, l.Remove(pieces[1]))
	require.False(t, l.Remove(pieces[1]), "already removed")
	require.False(t, l.Remove(newPiece("x", Hex{9, 9}, single, 0)))
	assert.Equal(t, []*piece{pieces[0], pieces[2]}, l.Elements())
	got := events.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, layout.Removed, got[0].Kind)
	assert.Equal(t, pieces[1], got[0].Element)

	// The freed position can be used again.
	require.True(t, l.CanPlace(newPiece("d", Hex{1, 0}, single, 0)))

	l.Clear()
	assert.Equal(t, 0, l.Len())
	got = events.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, pieces[2], got[0].Element)
	assert.Equal(t, pieces[0], got[1].Element)
	for _, event := range got {
		assert.Equal(t, layout.Removed, event.Kind)
	}
}

func TestNilEvents(t *testing.T) {
	var events *layout.Events[*piece]
	l := layout.New(events)
	require.True(t, l.Add(newPiece("a", Hex{0, 0}, single, 0)))
	l.Clear()
	assert.Equal(t, 0, events.Len())
	assert.Nil(t, events.Drain())
}

func TestIsTouchingExisting(t *testing.T) {
	l := layout.New[*piece](nil)
	a := newPiece("a", Hex{0, 0}, pair, 0)
	require.True(t, l.Add(a))

	assert.True(t, l.IsTouchingExisting(newPiece("b", Hex{1, 0}, single, 0)))
	assert.True(t, l.IsTouchingExisting(newPiece("b", Hex{-1, 2}, single, 0)))
	assert.False(t, l.IsTouchingExisting(newPiece("b", Hex{2, 0}, single, 0)))
	assert.False(t, l.IsTouchingExisting(newPiece("b", Hex{0, 3}, pair, 0)))
	assert.True(t, l.IsTouchingExisting(newPiece("b", Hex{0, 3}, pair, 3)), "rotated it reaches (0, 2)")

	// An element in the layout doesn't touch itself.
	assert.False(t, l.IsTouchingExisting(a))
}

func TestComputeHexCache(t *testing.T) {
	l := layout.New[*piece](nil)
	require.True(t, l.Add(newPiece("a", Hex{0, 0}, tri, 0)))
	require.True(t, l.Add(newPiece("b", Hex{5, 5}, pair, 0)))
	cache := l.ComputeHexCache()
	assert.Equal(t, 5, cache.Len())
	for _, h := range []Hex{{0, 0}, {1, 0}, {0, 1}, {5, 5}, {5, 6}} {
		assert.True(t, cache.Has(h), "position %s", h)
	}

	// Reusing the set drops the previous contents.
	cache.Insert(Hex{9, 9})
	var footprint []Hex
	l.ComputeHexCacheInto(cache, &footprint)
	assert.Equal(t, 5, cache.Len())
	assert.False(t, cache.Has(Hex{9, 9}))

	err := exceptions.TryCatch[error](func() { l.ComputeHexCacheInto(nil, &footprint) })
	require.ErrorContains(t, err, "non-nil cache set")
	require.Panics(t, func() { l.ComputeHexCacheInto(cache, nil) })
}

func TestScratchAliasing(t *testing.T) {
	l := layout.New[*piece](nil)
	require.True(t, l.Add(newPiece("a", Hex{0, 0}, single, 0)))
	candidate := newPiece("b", Hex{3, 0}, single, 0)

	buf := make([]Hex, 0, 8)
	require.Panics(t, func() { l.CanPlaceWith(candidate, &buf, &buf) })

	// Distinct slice headers over the same storage are also rejected.
	other := buf[:0]
	require.Panics(t, func() { l.CanPlaceWith(candidate, &buf, &other) })
	require.Panics(t, func() { l.IsTouchingExistingWith(candidate, &buf, &other) })

	var a, b []Hex
	require.NotPanics(t, func() { l.CanPlaceWith(candidate, &a, &b) })
}

func TestNoAllocations(t *testing.T) {
	l := layout.New[*piece](nil)
	for ii := range 10 {
		require.True(t, l.Add(newPiece("p", Hex{ii * 2, 0}, tri, ii)))
	}
	candidateHexes := make([]Hex, 0, 16)
	existingHexes := make([]Hex, 0, 16)
	candidate := newPiece("c", Hex{0, 5}, tri, 2)
	target := Hex{18, 0}

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = l.ElementAt(target, &existingHexes)
		_ = l.CanPlaceWith(candidate, &candidateHexes, &existingHexes)
	})
	assert.Equal(t, 0.0, allocs)
}

func BenchmarkElementAt(b *testing.B) {
	l := layout.New[*piece](nil)
	for ii := range 30 {
		l.Add(newPiece("p", Hex{ii * 2, ii % 3}, tri, ii))
	}
	var scratch []Hex
	b.ReportAllocs()
	b.ResetTimer()
	for ii := range b.N {
		_, _ = l.ElementAt(Hex{ii % 60, 1}, &scratch)
	}
}

func BenchmarkCanPlaceWith(b *testing.B) {
	l := layout.New[*piece](nil)
	for ii := range 30 {
		l.Add(newPiece("p", Hex{ii * 2, ii % 3}, tri, ii))
	}
	var candidateHexes, existingHexes []Hex
	candidate := newPiece("c", Hex{0, 10}, tri, 0)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = l.CanPlaceWith(candidate, &candidateHexes, &existingHexes)
	}
}
