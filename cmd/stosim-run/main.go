package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/stosim/stosim/internal/gillespie"
)

func main() {
	var (
		modelFile = flag.String("model-file", "", "path to model JSON/YAML file (required)")
		maxT      = flag.Float64("max-t", 1.0, "simulated end time")
		maxIter   = flag.Int("max-iter", 100, "maximum accepted reaction events per run")
		seed      = flag.Int64("seed", 0, "seed of the first repetition; rep i uses seed+i")
		reps      = flag.Int("reps", 1, "number of independent trajectories")
		outFile   = flag.String("out", "", "optional path to write the last trajectory as a JSON snapshot")
	)
	flag.Parse()

	if *modelFile == "" {
		fmt.Fprintf(os.Stderr, "error: --model-file is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := gillespie.LoadModelConfig(*modelFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading model: %v\n", err)
		os.Exit(1)
	}

	sys, err := gillespie.BuildSystemFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building system: %v\n", err)
		os.Exit(1)
	}

	opts := gillespie.DefaultOptions()
	opts.MaxT = *maxT
	opts.MaxIter = *maxIter

	seeds := make([]int64, *reps)
	for i := range seeds {
		seeds[i] = *seed + int64(i)
	}

	results, err := gillespie.RunEnsemble(sys, opts, *reps, seeds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running simulation: %v\n", err)
		os.Exit(1)
	}

	printSummary(cfg, results)

	if *outFile != "" {
		last := results.Runs[len(results.Runs)-1]
		snap := gillespie.NewSnapshot(cfg.Name, cfg.SpeciesNames(), last)
		data, err := gillespie.EncodeSnapshotJSON(snap)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error encoding snapshot: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*outFile, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "error writing snapshot: %v\n", err)
			os.Exit(1)
		}
	}
}

func printSummary(cfg gillespie.ModelConfig, results gillespie.Results) {
	fmt.Printf("Simulation finished (model=%s, reps=%d)\n", cfg.Name, len(results.Runs))

	statusCounts := make(map[gillespie.Status]int)
	for _, run := range results.Runs {
		statusCounts[run.Status]++
	}
	fmt.Println("Statuses:")
	for _, st := range []gillespie.Status{
		gillespie.StatusExtinction,
		gillespie.StatusNoPropensity,
		gillespie.StatusMaxTime,
		gillespie.StatusMaxIter,
	} {
		if statusCounts[st] > 0 {
			fmt.Printf("  %s: %d\n", st, statusCounts[st])
		}
	}

	names := cfg.SpeciesNames()
	for i, run := range results.Runs {
		fmt.Printf("Run %d (seed=%d): t=%.6g, %d events\n", i, run.Seed, run.Time, run.Steps)
		for j, name := range names {
			fmt.Printf("  %s: %d\n", name, run.State[j])
		}
	}
}
