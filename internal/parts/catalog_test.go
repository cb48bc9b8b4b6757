package parts_test

import (
	. "github.com/janpfeifer/hexcells/internal/hexgrid"
	. "github.com/janpfeifer/hexcells/internal/parts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, 8, c.Len())
	for id, def := range c.Definitions() {
		assert.Equal(t, id, def.ID())
		assert.Same(t, def, c.ByName(def.Name))
		for rotation := range NumRotations {
			assert.Len(t, def.RotatedHexes(rotation), def.Size())
			assert.Contains(t, def.RotatedHexes(rotation), Origin)
		}
	}
	assert.Nil(t, c.ByName("ribosome"))

	nucleus := c.MajorUpgrade()
	require.NotNil(t, nucleus)
	assert.Equal(t, "nucleus", nucleus.Name)
	assert.True(t, nucleus.Unique)
	assert.False(t, nucleus.Eligible())
	assert.Equal(t, "N", nucleus.Letter)
	assert.Equal(t, "K", c.ByName("core").Letter)
	assert.False(t, c.ByName("core").Eligible(), "zero weight")
	assert.True(t, c.ByName("cytoplasm").Eligible())

	// Rotations of the chloroplast footprint.
	chloroplast := c.ByName("chloroplast")
	assert.Equal(t, []Hex{{0, 0}, {1, 0}, {0, 1}}, chloroplast.RotatedHexes(0))
	assert.Equal(t, []Hex{{0, 0}, {0, 1}, {-1, 1}}, chloroplast.RotatedHexes(1))
	assert.Equal(t, chloroplast.RotatedHexes(1), chloroplast.RotatedHexes(7))
}

func TestNewCatalogErrors(t *testing.T) {
	single := []Hex{{0, 0}}
	for name, defs := range map[string][]*Definition{
		"empty":          nil,
		"no name":        {{Hexes: single}},
		"no hexes":       {{Name: "a"}},
		"no origin":      {{Name: "a", Hexes: []Hex{{1, 0}}}},
		"disconnected":   {{Name: "a", Hexes: []Hex{{0, 0}, {2, 0}}}},
		"repeated hex":   {{Name: "a", Hexes: []Hex{{0, 0}, {0, 0}}}},
		"negative":       {{Name: "a", Hexes: single, Weight: -1}},
		"duplicate name": {{Name: "a", Hexes: single}, {Name: "a", Hexes: single}},
		"nil definition": {{Name: "a", Hexes: single}, nil},
		"two upgrades": {
			{Name: "a", Hexes: single, MajorUpgrade: true},
			{Name: "b", Hexes: single, MajorUpgrade: true},
		},
	} {
		_, err := NewCatalog(defs...)
		assert.Error(t, err, "case %q should fail", name)
	}
}

func TestNewCatalogCopiesDefinitions(t *testing.T) {
	shared := &Definition{Name: "shared", Hexes: []Hex{{0, 0}, {1, 0}}, Weight: 1}
	upgrade := &Definition{Name: "upgrade", Hexes: []Hex{{0, 0}}, MajorUpgrade: true}
	first, err := NewCatalog(shared, upgrade)
	require.NoError(t, err)
	second, err := NewCatalog(&Definition{Name: "other", Hexes: []Hex{{0, 0}}}, shared)
	require.NoError(t, err)

	assert.Equal(t, 0, first.ByName("shared").ID())
	assert.Equal(t, 1, second.ByName("shared").ID())
	assert.NotSame(t, shared, first.ByName("shared"))
	assert.Equal(t, "S", first.ByName("shared").Letter)
	assert.True(t, first.ByName("upgrade").Unique)

	// The given definitions are untouched.
	assert.Equal(t, "", shared.Letter)
	assert.False(t, upgrade.Unique)
	shared.Hexes[1] = Hex{0, 1}
	assert.Equal(t, []Hex{{0, 0}, {1, 0}}, first.ByName("shared").Hexes)
}

func TestLoadCatalog(t *testing.T) {
	contents := []byte(`
parts:
  - name: core
    letter: C
    hexes: [[0, 0]]
    unique: true
    protected: true
  - name: tail
    hexes: [[0, 0], [0, 1], [0, 2]]
    weight: 2
  - name: shell
    hexes: [[0, 0], [1, 0]]
    major_upgrade: true
`)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, contents, 0o644))
	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, "C", c.ByName("core").Letter)
	assert.Equal(t, "T", c.ByName("tail").Letter)
	assert.Equal(t, 3, c.ByName("tail").Size())
	assert.Equal(t, 2.0, c.ByName("tail").Weight)
	assert.Same(t, c.ByName("shell"), c.MajorUpgrade())
	assert.True(t, c.MajorUpgrade().Unique)
	assert.Equal(t, "Catalog[core, tail, shell]", c.String())

	_, err = ParseCatalog([]byte("parts: [{name: x, hexes: [[1, 1]]}]"))
	require.Error(t, err)
	_, err = ParseCatalog([]byte("parts: {"))
	require.Error(t, err)
	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRandomKind(t *testing.T) {
	c := DefaultCatalog()
	rng := rand.New(rand.NewPCG(0, 0))
	counts := make(map[string]int)
	const numDraws = 20000
	for range numDraws {
		def := c.RandomKind(rng, nil)
		require.NotNil(t, def)
		require.True(t, def.Eligible())
		counts[def.Name]++
	}
	assert.Zero(t, counts["core"])
	assert.Zero(t, counts["nucleus"])
	// cytoplasm has weight 2 out of a total of 5.5.
	assert.InDelta(t, 2.0/5.5, float64(counts["cytoplasm"])/numDraws, 0.02)
	assert.InDelta(t, 0.25/5.5, float64(counts["toxin_vacuole"])/numDraws, 0.01)

	onlyVacuole := func(def *Definition) bool { return def.Name == "vacuole" }
	assert.Equal(t, "vacuole", c.RandomKind(rng, onlyVacuole).Name)
	assert.Nil(t, c.RandomKind(rng, func(*Definition) bool { return false }))
}
