// evolve runs an evolutionary drift simulation: a population of cells, all starting from the
// same layout, is mutated for a number of generations, and a summary of each generation is
// printed.
//
// Example:
//
//	$ go run ./cmd/evolve -population=200 -generations=100 -rates="creation=0.2,upgrade=0.01" -print
package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/janpfeifer/hexcells/internal/evolution"
	"github.com/janpfeifer/hexcells/internal/hexgrid"
	"github.com/janpfeifer/hexcells/internal/mutation"
	"github.com/janpfeifer/hexcells/internal/parts"
	"github.com/janpfeifer/hexcells/internal/profilers"
	"github.com/janpfeifer/hexcells/internal/ui/cli"
	"github.com/janpfeifer/hexcells/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"golang.org/x/term"
	"k8s.io/klog/v2"
	"math/rand/v2"
	"os"
	"time"
)

var (
	flagPopulation  = flag.Int("population", 100, "Number of organisms in the population.")
	flagGenerations = flag.Int("generations", 50, "Number of generations to run.")
	flagSeed        = flag.Int64("seed", -1, "Seed for the random number generators. If negative a random seed is used, and printed.")
	flagParallelism = flag.Int("parallelism", 0, "Number of mutations to run in parallel. If 0 it uses the number of cores.")
	flagCatalog     = flag.String("catalog", "", "YAML file with the catalog of part kinds. If empty, the built-in catalog is used.")
	flagRates       = flag.String("rates", "", "Mutation rates, e.g. \"deletion=0.1,replacement=0.1,creation=0.1,new_kind=0.25,upgrade=0.05,trials=6\". "+
		"They take precedence over --rates_file.")
	flagRatesFile   = flag.String("rates_file", "", "YAML file with mutation rates, with the same keys as --rates.")
	flagStarter     = flag.String("starter", "core", "Kind of the single part, at the origin, of the starting organisms.")
	flagStarterFile = flag.String("starter_file", "", "YAML file with the starting organism, as written by --dump. "+
		"If the file holds a population, its first organism is used. Takes precedence over --starter.")
	flagPrint = flag.Bool("print", false, "Print the largest organism of the final generation.")
	flagDump  = flag.String("dump", "", "Write the final population, as a YAML list of placements per organism, to this file.")
	flagQuiet = flag.Bool("quiet", false, "Only print the summary of the last generation.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagPopulation <= 0 {
		klog.Exitf("Invalid --population=%d, it must be positive", *flagPopulation)
	}
	if *flagGenerations < 0 {
		klog.Exitf("Invalid --generations=%d", *flagGenerations)
	}

	// Capture Control+C
	ctx, cancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 5*time.Second)
	defer cancel()

	profs := must.M1(profilers.Setup(ctx))
	defer profs.Stop()

	catalog := parts.DefaultCatalog()
	if *flagCatalog != "" {
		catalog = must.M1(parts.LoadCatalog(*flagCatalog))
	}
	rates := mutation.DefaultRates()
	if *flagRatesFile != "" {
		rates = must.M1(mutation.LoadRates(*flagRatesFile, rates))
	}
	rates = must.M1(mutation.ParseRates(*flagRates, rates))
	starter := createStarter(catalog)

	seed := uint64(*flagSeed)
	if *flagSeed < 0 {
		seed = rand.Uint64()
	}
	fmt.Printf("Seed: %d\n", seed)
	if klog.V(1).Enabled() {
		klog.Infof("Catalog: %s", catalog)
		klog.Infof("Rates: %+v", rates)
	}

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	ui := cli.New(isTerminal)
	sim := evolution.NewSimulation(catalog, rates, seed, starter, *flagPopulation)
	sim.Parallelism = *flagParallelism
	summary := evolution.Summarize(catalog, 0, sim.Population, nil)

	var spinner *spinning.Spinner
	if isTerminal {
		spinner = spinning.New(os.Stdout, spinning.ThemeClock, 250*time.Millisecond)
		spinner.SetMessage("generation 0 of %d", *flagGenerations)
	}
	err := sim.Run(ctx, *flagGenerations, func(s evolution.Summary) {
		summary = s
		if spinner != nil {
			spinner.SetMessage("generation %d of %d: %.2f parts per organism", s.Generation, *flagGenerations, s.MeanParts)
		}
		if !*flagQuiet && !isTerminal {
			fmt.Printf("generation %d: %.2f parts per organism (min %d, max %d)\n", s.Generation, s.MeanParts, s.MinParts, s.MaxParts)
		}
	})
	if spinner != nil {
		spinner.Done()
	}
	if err != nil {
		if ctx.Err() != nil {
			fmt.Printf("Interrupted after %d generations\n", sim.Generation)
		} else {
			klog.Exitf("Simulation failed: %+v", err)
		}
	}

	fmt.Println(ui.Box("Evolution", summary.Lines()))
	if *flagPrint {
		largest := sim.Population[0]
		for _, l := range sim.Population[1:] {
			if parts.NumHexes(l) > parts.NumHexes(largest) {
				largest = l
			}
		}
		fmt.Printf("\nLargest organism (%d parts, %d hexes):\n\n", largest.Len(), parts.NumHexes(largest))
		cli.PrintCentered(os.Stdout, ui.LayoutString(largest))
		fmt.Println()
		ui.PrintLegend(os.Stdout, catalog)
	}
	if *flagDump != "" {
		must.M(writeDump(*flagDump, seed, sim))
		fmt.Printf("Population written to %s\n", *flagDump)
	}
}

// createStarter returns the starting organism from --starter_file or --starter.
func createStarter(catalog *parts.Catalog) *parts.Layout {
	if *flagStarterFile != "" {
		return must.M1(loadStarter(*flagStarterFile, catalog))
	}
	def := catalog.ByName(*flagStarter)
	if def == nil {
		klog.Exitf("Unknown --starter=%q, catalog has %s", *flagStarter, catalog)
	}
	l := parts.NewLayout(nil)
	l.Add(parts.NewPlacement(def, hexgrid.Origin, 0))
	return l
}
