// Package anneal implements the Ising-style simulated-annealing optimizer
// behind the exam scheduler. A schedule is a spin vector (+1 morning,
// -1 afternoon); the energy function penalises conflicting subjects sharing a
// slot; the annealer walks the spin space with single-flip moves under a
// geometrically cooling temperature.
//
// One deliberate quirk is preserved from the reference implementation: the
// Metropolis acceptance test compares each candidate against the running BEST
// energy, not the energy of the current working state. This is not a textbook
// Markov chain, but it is the observable behaviour this port reproduces. A
// consequence: an accepted worsening move overwrites the running best, so the
// recorded energy history can rise while the temperature is high enough to
// accept such moves. It is non-increasing only once worsening moves are
// frozen out (exp(-delta/T) underflows to 0, or T <= 0).
package anneal

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Hook is an optional per-iteration callback, useful for progress logging.
// It must not mutate anything the annealer owns.
type Hook func(iter int, bestEnergy, temp float64)

// Result is the outcome of one annealing run.
type Result struct {
	// Best is the lowest-energy spin vector found. Always a private copy.
	Best []int
	// Energy is the energy of Best.
	Energy float64
	// History records the running best energy after each iteration, with the
	// initial energy at index 0. Because an accepted worsening move
	// overwrites the running best, entries can rise at high temperature;
	// they are non-increasing only in the freeze-out regime where no
	// worsening move can be accepted.
	History []float64
	// Iterations is the number of flip attempts actually performed.
	Iterations int
	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Annealer runs simulated annealing over spin vectors. It is single-threaded
// and holds no state between runs; the RNG is the only nondeterminism source.
type Annealer struct {
	cfg Config
	rng *rand.Rand

	// Hook, when set, is invoked once per iteration before cooling.
	Hook Hook
}

// New validates cfg and returns an Annealer drawing randomness from rng.
// The RNG is injected rather than ambient so runs can be seeded in tests.
func New(cfg Config, rng *rand.Rand) (*Annealer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("anneal config: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("anneal: rng must not be nil")
	}
	return &Annealer{cfg: cfg, rng: rng}, nil
}

// RandomSpins returns a uniformly random spin vector of length n.
func RandomSpins(n int, rng *rand.Rand) []int {
	spins := make([]int, n)
	for i := range spins {
		if rng.Intn(2) == 0 {
			spins[i] = 1
		} else {
			spins[i] = -1
		}
	}
	return spins
}

// Energy scores a spin vector against the coupling matrix:
//
//	E = Σ_{i<j} -J[i][j] * s[i] * s[j]
//
// Each unordered pair is counted once. With J = -1 on conflicting pairs, a
// same-slot conflict contributes +1 and a split conflict -1, so lower energy
// means fewer same-slot conflicts. Vectors of length 0 or 1 score 0.
func Energy(spins []int, coupling mat.Symmetric) float64 {
	e := 0.0
	n := len(spins)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			e += -coupling.At(i, j) * float64(spins[i]*spins[j])
		}
	}
	return e
}

// Run anneals from the initial spin vector and returns the best schedule
// found. The input slice is never aliased: the working state and the returned
// best state are both private copies.
//
// Each iteration flips one uniformly random spin, scores the candidate, and
// accepts it if it beats the running best or passes the Metropolis draw
// exp(-delta/T); otherwise the flip is reverted. The temperature is then
// multiplied by CoolRate, and the run stops once it drops below MinTemp or
// MaxIter is exhausted.
//
// Run returns ctx.Err() together with the best-so-far result if the context
// is cancelled mid-run.
func (a *Annealer) Run(ctx context.Context, initial []int, coupling mat.Symmetric) (Result, error) {
	start := time.Now()

	if len(initial) == 0 {
		return Result{}, fmt.Errorf("anneal: empty spin vector")
	}
	if n := coupling.SymmetricDim(); n != len(initial) {
		return Result{}, fmt.Errorf("anneal: %d spins vs %d×%d coupling matrix", len(initial), n, n)
	}
	for i, s := range initial {
		if s != 1 && s != -1 {
			return Result{}, fmt.Errorf("anneal: spin %d is %d, want +1 or -1", i, s)
		}
	}

	spins := make([]int, len(initial))
	copy(spins, initial)

	best := make([]int, len(spins))
	copy(best, spins)
	bestEnergy := Energy(spins, coupling)

	history := make([]float64, 0, a.cfg.MaxIter+1)
	history = append(history, bestEnergy)

	temp := a.cfg.InitialTemp
	iter := 0

	for ; iter < a.cfg.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return a.result(best, bestEnergy, history, iter, start), err
		}

		// Single-flip neighbour.
		k := a.rng.Intn(len(spins))
		spins[k] = -spins[k]

		newEnergy := Energy(spins, coupling)
		delta := newEnergy - bestEnergy

		if delta < 0 || a.acceptWorse(delta, temp) {
			bestEnergy = newEnergy
			copy(best, spins)
		} else {
			spins[k] = -spins[k] // revert
		}

		if a.Hook != nil {
			a.Hook(iter, bestEnergy, temp)
		}

		history = append(history, bestEnergy)

		temp *= a.cfg.CoolRate
		if temp < a.cfg.MinTemp {
			iter++
			break
		}
	}

	return a.result(best, bestEnergy, history, iter, start), nil
}

// acceptWorse applies the Metropolis draw for an energy-worsening move.
// A non-positive temperature rejects unconditionally: the freeze-out limit of
// exp(-delta/T), and a guard against division by zero.
func (a *Annealer) acceptWorse(delta, temp float64) bool {
	if temp <= 0 {
		return false
	}
	return a.rng.Float64() < math.Exp(-delta/temp)
}

func (a *Annealer) result(best []int, energy float64, history []float64, iters int, start time.Time) Result {
	out := make([]int, len(best))
	copy(out, best)
	return Result{
		Best:       out,
		Energy:     energy,
		History:    history,
		Iterations: iters,
		Duration:   time.Since(start),
	}
}
