// Command examsched assigns exam subjects to morning/afternoon timeslots by
// simulated annealing, minimising the number of conflicting subjects that
// share a slot.
//
// With no flags it solves the built-in five-subject demo instance. Custom
// instances are JSON files (see internal/problem). Each completed run is
// appended to a JSONL run log, and the best schedule seen per instance is
// kept in a local LevelDB store so improvements across invocations are
// reported.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/haricheung/examsched/internal/anneal"
	"github.com/haricheung/examsched/internal/beststore"
	"github.com/haricheung/examsched/internal/plot"
	"github.com/haricheung/examsched/internal/problem"
	"github.com/haricheung/examsched/internal/runlog"
	"github.com/haricheung/examsched/internal/schedule"
)

func main() {
	// Load env
	_ = godotenv.Load(".env")

	var (
		instancePath = flag.String("instance", "", "JSON instance file (default: built-in 5-subject demo)")
		t0           = flag.Float64("t0", 8.0, "initial temperature")
		tMin         = flag.Float64("tmin", 0.1, "minimum temperature (stops the run when cooled below)")
		coolRate     = flag.Float64("cool", 0.9, "cooling rate in (0,1)")
		maxIter      = flag.Int("iters", 500, "maximum iterations per run")
		seed         = flag.Int64("seed", 0, "RNG seed (0: time-based)")
		runs         = flag.Int("runs", 1, "independent annealing runs; the lowest-energy result wins")
		plotPath     = flag.String("plot", "", "write the winning run's energy curve as a PNG to this path")
		morning      = flag.String("morning", "morning session", "display label for the +1 slot")
		afternoon    = flag.String("afternoon", "afternoon session", "display label for the -1 slot")
		noPersist    = flag.Bool("no-persist", false, "skip the run log and best-solution store")
		verbose      = flag.Bool("v", false, "log per-iteration progress")
	)
	flag.Parse()

	if *runs < 1 {
		fatalf("runs must be >= 1 (got %d)", *runs)
	}

	// Resolve data dir
	dataDir := os.Getenv("EXAMSCHED_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Printf("[MAIN] WARNING: cannot resolve home dir (%v); keeping data in the working directory", err)
			homeDir = "."
		}
		dataDir = filepath.Join(homeDir, ".cache", "examsched")
	}

	// Instance: file or built-in demo
	inst := problem.Default()
	if *instancePath != "" {
		var err error
		inst, err = problem.Load(*instancePath)
		if err != nil {
			fatalf("%v", err)
		}
	}
	if err := inst.Validate(); err != nil {
		fatalf("%v", err)
	}

	cfg := anneal.Config{
		InitialTemp: *t0,
		MinTemp:     *tMin,
		CoolRate:    *coolRate,
		MaxIter:     *maxIter,
	}

	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	// Context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nexamsched: shutting down")
		cancel()
	}()

	var runLog *runlog.Log
	if !*noPersist {
		var err error
		runLog, err = runlog.Open(filepath.Join(dataDir, "runs.jsonl"))
		if err != nil {
			log.Printf("[MAIN] WARNING: run log disabled: %v", err)
		}
		defer runLog.Close()
	}

	coupling := inst.Coupling()
	fingerprint := inst.Fingerprint()

	var winner anneal.Result
	var winnerSeed int64
	for r := 0; r < *runs; r++ {
		runSeed := baseSeed + int64(r)
		rng := rand.New(rand.NewSource(runSeed))

		annealer, err := anneal.New(cfg, rng)
		if err != nil {
			fatalf("%v", err)
		}
		if *verbose {
			annealer.Hook = func(iter int, bestEnergy, temp float64) {
				log.Printf("[ANNEAL] run=%d iter=%d best=%.2f T=%.3f", r, iter, bestEnergy, temp)
			}
		}

		initial := anneal.RandomSpins(inst.N(), rng)
		result, err := annealer.Run(ctx, initial, coupling)
		if err != nil {
			fatalf("%v", err)
		}

		conflicts := schedule.CountConflicts(inst, result.Best)
		log.Printf("[MAIN] run=%d seed=%d iterations=%d energy=%.2f conflicts=%d elapsed=%s",
			r, runSeed, result.Iterations, result.Energy, conflicts, result.Duration)

		if err := runLog.Append(runlog.Record{
			Instance:    fingerprint,
			Seed:        runSeed,
			InitialTemp: cfg.InitialTemp,
			MinTemp:     cfg.MinTemp,
			CoolRate:    cfg.CoolRate,
			MaxIter:     cfg.MaxIter,
			Energy:      result.Energy,
			Conflicts:   conflicts,
			Iterations:  result.Iterations,
			ElapsedMs:   result.Duration.Milliseconds(),
		}); err != nil {
			log.Printf("[MAIN] WARNING: run log append failed: %v", err)
		}

		if r == 0 || result.Energy < winner.Energy {
			winner = result
			winnerSeed = runSeed
		}
	}

	labels := schedule.Labels{Morning: *morning, Afternoon: *afternoon}
	assignments := schedule.Decode(inst.Subjects, winner.Best, labels)
	conflicts := schedule.CountConflicts(inst, winner.Best)

	fmt.Println("\n--- Optimal exam schedule ---")
	fmt.Print(schedule.RenderTable(assignments))
	fmt.Printf("\nresidual conflicts: %d (of %d conflicting pairs)\n", conflicts, inst.ConflictPairs())
	fmt.Printf("final energy:       %.2f\n", winner.Energy)
	fmt.Printf("winning seed:       %d\n", winnerSeed)

	if *plotPath != "" {
		if err := plot.SaveEnergyCurve(winner.History, *plotPath); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("energy curve:       %s\n", *plotPath)
	}

	if !*noPersist {
		reportBest(dataDir, fingerprint, winner, conflicts)
	}
}

// reportBest records the winning schedule in the best-solution store and
// tells the user when it improves on (or fails to reach) the best seen in
// earlier invocations. Store failures are non-fatal: the schedule above is
// already printed.
func reportBest(dataDir, fingerprint string, winner anneal.Result, conflicts int) {
	store, err := beststore.Open(filepath.Join(dataDir, "best"))
	if err != nil {
		log.Printf("[MAIN] WARNING: best-solution store unavailable: %v", err)
		return
	}
	defer store.Close()

	prev, err := store.Best(fingerprint)
	if err != nil {
		log.Printf("[MAIN] WARNING: best-solution lookup failed: %v", err)
		return
	}

	improved, err := store.Update(fingerprint, beststore.Entry{
		Spins:     winner.Best,
		Energy:    winner.Energy,
		Conflicts: conflicts,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("[MAIN] WARNING: best-solution update failed: %v", err)
		return
	}

	switch {
	case improved && prev != nil:
		fmt.Printf("\nnew best for this instance (previous energy %.2f)\n", prev.Energy)
	case improved:
		fmt.Println("\nfirst recorded solution for this instance")
	case prev != nil && prev.Energy < winner.Energy:
		fmt.Printf("\nbest known for this instance remains energy %.2f (%d conflicts)\n", prev.Energy, prev.Conflicts)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
