package main

import (
	"github.com/janpfeifer/hexcells/internal/evolution"
	"github.com/janpfeifer/hexcells/internal/parts"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"os"
)

// Dump is the YAML format of a population written by --dump.
type Dump struct {
	Seed       uint64           `yaml:"seed"`
	Generation int              `yaml:"generation"`
	Organisms  [][]parts.Triple `yaml:"organisms"`
}

func writeDump(path string, seed uint64, sim *evolution.Simulation) error {
	dump := Dump{Seed: seed, Generation: sim.Generation}
	for _, l := range sim.Population {
		dump.Organisms = append(dump.Organisms, parts.Flatten(l))
	}
	contents, err := yaml.Marshal(&dump)
	if err != nil {
		return errors.Wrap(err, "failed to encode population")
	}
	return errors.Wrapf(os.WriteFile(path, contents, 0o644), "failed to write population to %q", path)
}

// loadStarter reads the first organism of a file written by --dump, or a file with a single
// list of placements.
func loadStarter(path string, catalog *parts.Catalog) (*parts.Layout, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read starter from %q", path)
	}
	var triples []parts.Triple
	var dump Dump
	if err := yaml.Unmarshal(contents, &dump); err == nil && len(dump.Organisms) > 0 {
		triples = dump.Organisms[0]
	} else if err := yaml.Unmarshal(contents, &triples); err != nil {
		return nil, errors.Wrapf(err, "failed to parse starter %q", path)
	}
	if len(triples) == 0 {
		return nil, errors.Errorf("starter %q has no placements", path)
	}
	l, err := parts.FromTriples(catalog, triples, nil)
	if err != nil {
		return nil, errors.WithMessagef(err, "starter %q", path)
	}
	return l, nil
}
