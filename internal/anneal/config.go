package anneal

import "fmt"

// Config holds the annealing schedule parameters.
type Config struct {
	// InitialTemp is the starting temperature. Must be > 0.
	InitialTemp float64
	// MinTemp stops the run once the temperature cools below it.
	// Must be > 0 and < InitialTemp.
	MinTemp float64
	// CoolRate is the multiplicative cooling factor applied each iteration.
	// Must lie strictly inside (0,1).
	CoolRate float64
	// MaxIter caps the number of iterations. Zero returns the initial state
	// untouched. Must be >= 0.
	MaxIter int
}

// DefaultConfig returns the schedule used by the classroom demo: a fast
// geometric cool-down from 8.0 to 0.1, which terminates after ~43 iterations
// well before the 500-iteration cap.
func DefaultConfig() Config {
	return Config{
		InitialTemp: 8.0,
		MinTemp:     0.1,
		CoolRate:    0.9,
		MaxIter:     500,
	}
}

// Validate checks the schedule parameters and returns a descriptive error
// naming the first violated constraint, or nil.
func (c Config) Validate() error {
	if c.InitialTemp <= 0 {
		return fmt.Errorf("InitialTemp must be > 0 (got %g)", c.InitialTemp)
	}
	if c.MinTemp <= 0 {
		return fmt.Errorf("MinTemp must be > 0 (got %g)", c.MinTemp)
	}
	if c.MinTemp >= c.InitialTemp {
		return fmt.Errorf("MinTemp must be < InitialTemp (got %g >= %g)", c.MinTemp, c.InitialTemp)
	}
	if c.CoolRate <= 0 || c.CoolRate >= 1 {
		return fmt.Errorf("CoolRate must lie in (0,1) (got %g)", c.CoolRate)
	}
	if c.MaxIter < 0 {
		return fmt.Errorf("MaxIter must be >= 0 (got %d)", c.MaxIter)
	}
	return nil
}
