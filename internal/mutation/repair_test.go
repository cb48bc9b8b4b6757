package mutation_test

import (
	. "github.com/janpfeifer/hexcells/internal/hexgrid"
	. "github.com/janpfeifer/hexcells/internal/mutation"
	"github.com/janpfeifer/hexcells/internal/parts"
	"github.com/janpfeifer/hexcells/internal/parts/partstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand/v2"
	"testing"
)

func TestTranslation(t *testing.T) {
	// Scaled vector.
	assert.Equal(t, Hex{2, 0}, Translation(Hex{3, 0}, Hex{0, 0}))
	assert.Equal(t, Hex{-1, -1}, Translation(Hex{-1, -1}, Hex{1, 1}))
	assert.Equal(t, Hex{3, 0}, Translation(Hex{4, 0}, Hex{0, 0}))

	// Zero after truncation: unit step fallback.
	assert.Equal(t, SideBottomRight.Offset(), Translation(Hex{1, 1}, Hex{0, 0}))
	assert.Equal(t, SideTop.Offset(), Translation(Hex{-1, -1}, Hex{0, 0}))

	assert.Equal(t, Hex{0, 0}, Translation(Hex{2, 3}, Hex{2, 3}))

	// For any pair at distance >= 2: the translation is shorter than the distance, and it
	// strictly reduces it.
	for q := -8; q <= 8; q++ {
		for r := -8; r <= 8; r++ {
			v := Hex{q, r}
			d := v.Length()
			if d < 2 {
				continue
			}
			for _, mainHex := range []Hex{{0, 0}, {3, -5}} {
				islandHex := mainHex.Add(v)
				translation := Translation(islandHex, mainHex)
				require.False(t, translation.IsZero(), "v=%s", v)
				require.LessOrEqual(t, translation.Length(), d-1, "v=%s", v)
				require.Less(t, Distance(islandHex.Sub(translation), mainHex), d, "v=%s", v)
			}
		}
	}
}

func TestRepairIslandsAdversarial(t *testing.T) {
	catalog := parts.DefaultCatalog()

	// Same size parts: the first is the main cluster, and the translation truncates to zero.
	l := partstest.BuildLayout(catalog, []partstest.PartOnGrid{
		{Kind: "cytoplasm", Pos: Hex{0, 0}},
		{Kind: "cytoplasm", Pos: Hex{1, 1}},
	})
	assert.Equal(t, 1, RepairIslands(l))
	assert.Equal(t, Hex{0, 1}, l.At(1).Position)
	assert.Equal(t, 0, l.IslandHexes().Len())

	// Mirror-symmetric around the origin.
	l = partstest.BuildLayout(catalog, []partstest.PartOnGrid{
		{Kind: "cytoplasm", Pos: Hex{1, 1}},
		{Kind: "cytoplasm", Pos: Hex{-1, -1}},
	})
	assert.Equal(t, 2, RepairIslands(l))
	assert.Equal(t, Hex{1, 1}, l.At(0).Position)
	assert.Equal(t, Hex{0, 1}, l.At(1).Position)

	// Two islands mirror-symmetric around the main part: they move together.
	l = partstest.BuildLayout(catalog, []partstest.PartOnGrid{
		{Kind: "core"},
		{Kind: "cytoplasm", Pos: Hex{1, 1}},
		{Kind: "cytoplasm", Pos: Hex{-1, -1}},
	})
	assert.Equal(t, 3, RepairIslands(l))
	assert.Equal(t, []parts.Triple{
		{Kind: "core"},
		{Kind: "cytoplasm", Q: 0, R: 1},
		{Kind: "cytoplasm", Q: -1, R: 0},
	}, parts.Flatten(l))
}

func TestRepairIslandsMultiHex(t *testing.T) {
	catalog := parts.DefaultCatalog()
	l := partstest.BuildLayout(catalog, []partstest.PartOnGrid{
		{Kind: "core"},
		{Kind: "mitochondrion", Pos: Hex{4, 0}},
	})
	// Main is the larger component: the mitochondrion stays, the core moves.
	assert.Equal(t, 1, RepairIslands(l))
	assert.Equal(t, Hex{3, 0}, l.At(0).Position)
	assert.Equal(t, Hex{4, 0}, l.At(1).Position)
	assert.Equal(t, 0, l.IslandHexes().Len())

	// Already connected: nothing to do.
	assert.Equal(t, 0, RepairIslands(l))
}

func TestRepairIslandsRandom(t *testing.T) {
	catalog := parts.DefaultCatalog()
	kinds := []string{"cytoplasm", "mitochondrion", "vacuole", "chloroplast", "toxin_vacuole"}
	var mutator Mutator
	for seed := range uint64(300) {
		rng := rand.New(rand.NewPCG(seed, 1))
		l := parts.NewLayout(nil)
		for range 2 + rng.IntN(10) {
			def := catalog.ByName(kinds[rng.IntN(len(kinds))])
			position := Hex{rng.IntN(21) - 10, rng.IntN(21) - 10}
			l.Add(parts.NewPlacement(def, position, rng.IntN(NumRotations)))
		}
		numParts, numHexes := l.Len(), parts.NumHexes(l)
		iterations := mutator.RepairIslands(l)
		require.Less(t, iterations, RepairIterationLimit)
		require.Equal(t, 0, l.IslandHexes().Len(), "seed=%d: %v", seed, parts.Flatten(l))
		require.Equal(t, numParts, l.Len())
		require.Equal(t, numHexes, l.ComputeHexCache().Len(), "seed=%d: overlaps in %v", seed, parts.Flatten(l))
	}
}
