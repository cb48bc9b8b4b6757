// Package evolution runs mutations over whole populations of layouts, in parallel.
//
// Each organism is mutated with its own random number generator, derived from a seed and
// the organism index, so results don't depend on the parallelism or on the scheduling of
// the goroutines.
package evolution

import (
	"context"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexcells/internal/mutation"
	"github.com/janpfeifer/hexcells/internal/parts"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
	"math/rand/v2"
	"runtime"
	"sync"
)

// MutateAll returns one mutated child for each of the parents, in the same order, with the
// statistics of each mutation.
//
// The child of parents[i] uses rand.NewPCG(seed, i) as its random source. At most
// parallelism mutations run at the same time: if parallelism <= 0, runtime.GOMAXPROCS(0) is used.
//
// If ctx is cancelled, no new mutations are started and ctx.Err() is returned. A contract
// violation (e.g. an empty parent) is returned as an error naming the organism.
func MutateAll(ctx context.Context, parents []*parts.Layout, catalog *parts.Catalog, rates mutation.Rates,
	seed uint64, parallelism int) (children []*parts.Layout, stats []mutation.Stats, err error) {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	children = make([]*parts.Layout, len(parents))
	stats = make([]mutation.Stats, len(parents))
	mutators := sync.Pool{New: func() any { return mutation.NewMutator(catalog, rates) }}

	var wg errgroup.Group
	wg.SetLimit(parallelism)
	for idx, parent := range parents {
		wg.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			mutator := mutators.Get().(*mutation.Mutator)
			defer mutators.Put(mutator)
			rng := rand.New(rand.NewPCG(seed, uint64(idx)))
			err := exceptions.TryCatch[error](func() {
				children[idx], stats[idx] = mutator.Mutate(parent, rng)
			})
			if err != nil {
				return errors.WithMessagef(err, "mutating organism #%d", idx)
			}
			return nil
		})
	}
	if err = wg.Wait(); err != nil {
		return nil, nil, err
	}
	if klog.V(2).Enabled() {
		klog.Infof("evolution: mutated %d organisms (parallelism=%d)", len(parents), parallelism)
	}
	return
}

// Simulation evolves a population, one generation at a time.
type Simulation struct {
	Catalog     *parts.Catalog
	Rates       mutation.Rates
	Parallelism int

	// Population of the current generation.
	Population []*parts.Layout

	// Generation number, the starting population is generation 0.
	Generation int

	rng *rand.Rand
}

// NewSimulation creates a population of size copies of starter.
func NewSimulation(catalog *parts.Catalog, rates mutation.Rates, seed uint64, starter *parts.Layout, size int) *Simulation {
	s := &Simulation{
		Catalog:    catalog,
		Rates:      rates,
		Population: make([]*parts.Layout, size),
		rng:        rand.New(rand.NewPCG(seed, 0)),
	}
	for ii := range s.Population {
		s.Population[ii] = parts.Clone(starter, nil)
	}
	return s
}

// Step replaces the population by its mutated children, and returns the summary of the new
// generation. If it fails (or ctx is cancelled) the population is left unchanged.
func (s *Simulation) Step(ctx context.Context) (summary Summary, err error) {
	seed := s.rng.Uint64()
	children, stats, err := MutateAll(ctx, s.Population, s.Catalog, s.Rates, seed, s.Parallelism)
	if err != nil {
		return summary, errors.WithMessagef(err, "generation %d", s.Generation+1)
	}
	s.Population = children
	s.Generation++
	summary = Summarize(s.Catalog, s.Generation, s.Population, stats)
	if klog.V(1).Enabled() {
		klog.Infof("generation %d: mean %.2f parts, %d inserted, %d deleted",
			summary.Generation, summary.MeanParts, summary.Totals.Inserted, summary.Totals.Deleted)
	}
	return
}

// Run steps the simulation the given number of generations. onGeneration, if not nil, is
// called after each generation.
func (s *Simulation) Run(ctx context.Context, generations int, onGeneration func(summary Summary)) error {
	for range generations {
		summary, err := s.Step(ctx)
		if err != nil {
			return err
		}
		if onGeneration != nil {
			onGeneration(summary)
		}
	}
	return nil
}
