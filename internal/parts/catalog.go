package parts

import (
	"github.com/janpfeifer/hexcells/internal/generics"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
)

// Catalog is the collection of part kinds available to layouts. It is immutable once created,
// and can be shared across goroutines.
type Catalog struct {
	definitions []*Definition
	byName      map[string]*Definition
	upgrade     *Definition
}

// NewCatalog validates the definitions and creates a catalog with copies of them, in the given
// order. The given definitions are not changed, use ByName to get the ones in the catalog.
//
// Definitions must have distinct names, a connected footprint including the origin, and at most
// one of them can be a MajorUpgrade. A MajorUpgrade kind is always Unique.
func NewCatalog(definitions ...*Definition) (*Catalog, error) {
	if len(definitions) == 0 {
		return nil, errors.New("catalog has no part definitions")
	}
	c := &Catalog{
		definitions: make([]*Definition, len(definitions)),
		byName:      make(map[string]*Definition, len(definitions)),
	}
	for id, given := range definitions {
		if given == nil {
			return nil, errors.Errorf("invalid catalog: part definition #%d is nil", id)
		}
		def := new(Definition)
		*def = *given
		def.Hexes = slices.Clone(given.Hexes)
		c.definitions[id] = def
		if err := def.prepare(id); err != nil {
			return nil, errors.WithMessagef(err, "invalid catalog")
		}
		if _, found := c.byName[def.Name]; found {
			return nil, errors.Errorf("invalid catalog: part %q defined more than once", def.Name)
		}
		c.byName[def.Name] = def
		if def.MajorUpgrade {
			if c.upgrade != nil {
				return nil, errors.Errorf("invalid catalog: parts %q and %q are both marked as major upgrade",
					c.upgrade.Name, def.Name)
			}
			def.Unique = true
			c.upgrade = def
		}
	}
	if klog.V(2).Enabled() {
		for _, def := range c.definitions {
			klog.Infof("catalog: %s", def.describe())
		}
	}
	return c, nil
}

// catalogFile is the format of YAML catalog files.
type catalogFile struct {
	Parts []*Definition `yaml:"parts"`
}

// ParseCatalog parses a catalog in YAML format: a list of definitions under the key "parts".
func ParseCatalog(contents []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog")
	}
	return NewCatalog(file.Parts...)
}

// LoadCatalog reads a catalog from a YAML file, see ParseCatalog.
func LoadCatalog(path string) (*Catalog, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog file")
	}
	c, err := ParseCatalog(contents)
	if err != nil {
		return nil, errors.WithMessagef(err, "catalog file %q", path)
	}
	return c, nil
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.definitions)
}

// Definitions returns the definitions in the catalog. The slice must not be modified.
func (c *Catalog) Definitions() []*Definition {
	return c.definitions
}

// ByName returns the definition with the given name, or nil if there is none.
func (c *Catalog) ByName(name string) *Definition {
	return c.byName[name]
}

// MajorUpgrade returns the definition marked as major upgrade, or nil if there is none.
func (c *Catalog) MajorUpgrade() *Definition {
	return c.upgrade
}

// String lists the names of the definitions.
func (c *Catalog) String() string {
	names := generics.SliceMap(c.definitions, func(def *Definition) string { return def.Name })
	return "Catalog[" + strings.Join(names, ", ") + "]"
}

// RandomKind picks one of the Eligible definitions accepted by filter (if not nil), with
// probability proportional to their Weight.
//
// It returns nil if no definition qualifies.
func (c *Catalog) RandomKind(rng *rand.Rand, filter func(def *Definition) bool) *Definition {
	var total float64
	for _, def := range c.definitions {
		if def.Eligible() && (filter == nil || filter(def)) {
			total += def.Weight
		}
	}
	if total <= 0 {
		return nil
	}
	chance := rng.Float64() * total
	var last *Definition
	for _, def := range c.definitions {
		if !def.Eligible() || (filter != nil && !filter(def)) {
			continue
		}
		if chance < def.Weight {
			return def
		}
		chance -= def.Weight
		last = def
	}
	// Only reachable through floating point rounding.
	return last
}

// DefaultCatalog returns a new catalog with the built-in part kinds.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		&Definition{Name: "core", Letter: "K", Hexes: []hexgrid.Hex{{0, 0}}, Unique: true, Protected: true},
		&Definition{Name: "cytoplasm", Hexes: []hexgrid.Hex{{0, 0}}, Weight: 2},
		&Definition{Name: "mitochondrion", Hexes: []hexgrid.Hex{{0, 0}, {0, 1}}, Weight: 1},
		&Definition{Name: "vacuole", Hexes: []hexgrid.Hex{{0, 0}, {1, 0}}, Weight: 1},
		&Definition{Name: "chloroplast", Letter: "P", Hexes: []hexgrid.Hex{{0, 0}, {1, 0}, {0, 1}}, Weight: 0.75},
		&Definition{Name: "flagellum", Hexes: []hexgrid.Hex{{0, 0}}, Weight: 0.5},
		&Definition{Name: "toxin_vacuole", Letter: "T", Hexes: []hexgrid.Hex{{0, 0}, {0, 1}, {0, 2}}, Weight: 0.25},
		&Definition{
			Name:         "nucleus",
			Hexes:        []hexgrid.Hex{{0, 0}, {1, 0}, {0, 1}, {1, -1}, {-1, 1}, {0, -1}, {-1, 0}},
			Protected:    true,
			MajorUpgrade: true,
		},
	)
	if err != nil {
		// Built-in definitions are always valid.
		panic(err)
	}
	return c
}
