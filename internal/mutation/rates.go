package mutation

import (
	"bytes"
	"github.com/janpfeifer/hexcells/internal/parameters"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"io"
	"os"
)

// Rates configure the chances of each kind of structural change.
type Rates struct {
	// Deletion rate of a non-protected part. The actual chance per part is
	// Deletion/sqrt(number of parts in the parent), so larger organisms don't shrink faster.
	Deletion float64 `yaml:"deletion"`

	// Replacement is the chance of a kept non-protected part being substituted by a random kind,
	// at the same position and rotation.
	Replacement float64 `yaml:"replacement"`

	// Creation is the chance, for each of the InsertionTrials, of inserting a new part.
	Creation float64 `yaml:"creation"`

	// NewKind is the chance of an inserted part being a random kind, as opposed to a duplicate of
	// a non-unique kind already in the parent.
	NewKind float64 `yaml:"new_kind"`

	// Upgrade is the chance of inserting the catalog's major upgrade kind, if not yet present.
	Upgrade float64 `yaml:"upgrade"`

	// InsertionTrials is the number of independent insertion draws.
	InsertionTrials int `yaml:"trials"`

	// RequireProtected makes mutating a parent without any protected part a contract violation.
	RequireProtected bool `yaml:"require_protected"`
}

// DefaultRates returns the rates used if none are configured.
func DefaultRates() Rates {
	return Rates{
		Deletion:         0.1,
		Replacement:      0.1,
		Creation:         0.1,
		NewKind:          0.25,
		Upgrade:          0.05,
		InsertionTrials:  6,
		RequireProtected: true,
	}
}

// Validate returns an error if any of the chances is not in [0, 1], or if InsertionTrials is negative.
func (r Rates) Validate() error {
	for _, chance := range []struct {
		name  string
		value float64
	}{
		{"deletion", r.Deletion},
		{"replacement", r.Replacement},
		{"creation", r.Creation},
		{"new_kind", r.NewKind},
		{"upgrade", r.Upgrade},
	} {
		if chance.value < 0 || chance.value > 1 {
			return errors.Errorf("rate %s=%g must be between 0 and 1", chance.name, chance.value)
		}
	}
	if r.InsertionTrials < 0 {
		return errors.Errorf("rate trials=%d must be non-negative", r.InsertionTrials)
	}
	return nil
}

// ParseRates overwrites base with the values in a configuration string, like
// "deletion=0.2,trials=4,require_protected=false". Unknown keys are an error.
func ParseRates(config string, base Rates) (rates Rates, err error) {
	rates = base
	params := parameters.NewFromConfigString(config)
	if rates.Deletion, err = parameters.PopParamOr(params, "deletion", rates.Deletion); err != nil {
		return
	}
	if rates.Replacement, err = parameters.PopParamOr(params, "replacement", rates.Replacement); err != nil {
		return
	}
	if rates.Creation, err = parameters.PopParamOr(params, "creation", rates.Creation); err != nil {
		return
	}
	if rates.NewKind, err = parameters.PopParamOr(params, "new_kind", rates.NewKind); err != nil {
		return
	}
	if rates.Upgrade, err = parameters.PopParamOr(params, "upgrade", rates.Upgrade); err != nil {
		return
	}
	if rates.InsertionTrials, err = parameters.PopParamOr(params, "trials", rates.InsertionTrials); err != nil {
		return
	}
	if rates.RequireProtected, err = parameters.PopParamOr(params, "require_protected", rates.RequireProtected); err != nil {
		return
	}
	if err = parameters.CheckAllUsed(params); err != nil {
		return
	}
	err = rates.Validate()
	return
}

// ParseRatesYAML overwrites base with the values in the YAML contents. Keys are the same as
// in ParseRates, and unknown keys are an error.
func ParseRatesYAML(contents []byte, base Rates) (Rates, error) {
	rates := base
	dec := yaml.NewDecoder(bytes.NewReader(contents))
	dec.KnownFields(true)
	if err := dec.Decode(&rates); err != nil && !errors.Is(err, io.EOF) {
		return base, errors.Wrap(err, "failed to parse rates")
	}
	if err := rates.Validate(); err != nil {
		return base, err
	}
	return rates, nil
}

// LoadRates reads the rates from a YAML file, using base for the values not set.
func LoadRates(path string, base Rates) (Rates, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrapf(err, "failed to read rates from %q", path)
	}
	rates, err := ParseRatesYAML(contents, base)
	if err != nil {
		return base, errors.WithMessagef(err, "rates file %q", path)
	}
	return rates, nil
}
