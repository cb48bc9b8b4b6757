package evolution

import (
	"fmt"
	"github.com/janpfeifer/hexcells/internal/mutation"
	"github.com/janpfeifer/hexcells/internal/parts"
)

// KindCount is the number of parts of a kind over a whole population.
type KindCount struct {
	Kind  *parts.Definition
	Count int

	// Organisms with at least one part of the kind.
	Organisms int
}

// Summary of one generation of a population.
type Summary struct {
	Generation int
	Size       int

	MinParts, MaxParts int
	MeanParts          float64
	MeanHexes          float64

	// Kinds in catalog order, including those with zero count.
	Kinds []KindCount

	// Totals of the mutation statistics over the population.
	Totals mutation.Stats

	// Upgraded is the number of organisms that received the major upgrade in this generation.
	Upgraded int
}

// Summarize the population of a generation, and the statistics of the mutations that
// created it. stats can be nil (e.g. for the starting generation).
func Summarize(catalog *parts.Catalog, generation int, population []*parts.Layout, stats []mutation.Stats) (summary Summary) {
	summary.Generation = generation
	summary.Size = len(population)
	summary.Kinds = make([]KindCount, catalog.Len())
	for ii, def := range catalog.Definitions() {
		summary.Kinds[ii].Kind = def
	}
	totalParts, totalHexes := 0, 0
	for ii, l := range population {
		n := l.Len()
		if ii == 0 || n < summary.MinParts {
			summary.MinParts = n
		}
		summary.MaxParts = max(summary.MaxParts, n)
		totalParts += n
		totalHexes += parts.NumHexes(l)
		for kindIdx := range summary.Kinds {
			count := parts.Count(l, summary.Kinds[kindIdx].Kind)
			summary.Kinds[kindIdx].Count += count
			if count > 0 {
				summary.Kinds[kindIdx].Organisms++
			}
		}
	}
	if len(population) > 0 {
		summary.MeanParts = float64(totalParts) / float64(len(population))
		summary.MeanHexes = float64(totalHexes) / float64(len(population))
	}
	for _, s := range stats {
		summary.Totals.Deleted += s.Deleted
		summary.Totals.Replaced += s.Replaced
		summary.Totals.Relocated += s.Relocated
		summary.Totals.Dropped += s.Dropped
		summary.Totals.Inserted += s.Inserted
		summary.Totals.Abandoned += s.Abandoned
		summary.Totals.RepairIterations += s.RepairIterations
		if s.Upgraded {
			summary.Upgraded++
		}
		if s.ForcedNonEmpty {
			summary.Totals.ForcedNonEmpty = true
		}
	}
	return
}

// Lines returns a text description of the summary, one item per line.
func (s Summary) Lines() []string {
	lines := []string{
		fmt.Sprintf("generation:     %d", s.Generation),
		fmt.Sprintf("organisms:      %d", s.Size),
		fmt.Sprintf("parts:          %.2f (min %d, max %d)", s.MeanParts, s.MinParts, s.MaxParts),
		fmt.Sprintf("hexes:          %.2f", s.MeanHexes),
		fmt.Sprintf("deleted:        %d", s.Totals.Deleted),
		fmt.Sprintf("replaced:       %d", s.Totals.Replaced),
		fmt.Sprintf("inserted:       %d (%d abandoned)", s.Totals.Inserted, s.Totals.Abandoned),
		fmt.Sprintf("relocated:      %d (%d dropped)", s.Totals.Relocated, s.Totals.Dropped),
		fmt.Sprintf("upgraded:       %d", s.Upgraded),
		fmt.Sprintf("repair moves:   %d", s.Totals.RepairIterations),
	}
	for _, kind := range s.Kinds {
		if kind.Count == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %-14s%d in %d organisms", kind.Kind.Name+":", kind.Count, kind.Organisms))
	}
	return lines
}
