// Package problem models an exam-scheduling instance: a fixed set of
// subjects plus a symmetric conflict relation between them. Two conflicting
// subjects must not sit in the same timeslot.
//
// The instance is immutable once validated. The only derived artifact is the
// coupling matrix consumed by the annealer: J[i][j] = -1 for a conflicting
// pair, 0 otherwise, so that same-slot conflicts raise the system energy.
package problem

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Instance is one scheduling problem: subject names in display order and the
// pairwise conflict relation over them.
//
// Expectations:
//   - Conflicts is N×N where N == len(Subjects)
//   - Conflicts is symmetric with a false diagonal (no self-conflict)
//   - Treated as read-only after Validate
type Instance struct {
	Subjects  []string
	Conflicts [][]bool
}

// Default returns the built-in five-subject demo instance: language has no
// conflicts; math conflicts with physics and chemistry; english conflicts
// with physics.
func Default() Instance {
	names := []string{"language", "math", "english", "physics", "chemistry"}
	pairs := [][2]int{{1, 3}, {1, 4}, {2, 3}}

	conflicts := make([][]bool, len(names))
	for i := range conflicts {
		conflicts[i] = make([]bool, len(names))
	}
	for _, p := range pairs {
		conflicts[p[0]][p[1]] = true
		conflicts[p[1]][p[0]] = true
	}
	return Instance{Subjects: names, Conflicts: conflicts}
}

// Validate checks the structural invariants of the instance. It returns a
// descriptive error naming the first violated constraint, or nil.
func (in Instance) Validate() error {
	n := len(in.Subjects)
	if n == 0 {
		return fmt.Errorf("instance has no subjects")
	}
	for i, name := range in.Subjects {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("subject %d has an empty name", i)
		}
	}
	if len(in.Conflicts) != n {
		return fmt.Errorf("conflict matrix has %d rows, want %d", len(in.Conflicts), n)
	}
	for i, row := range in.Conflicts {
		if len(row) != n {
			return fmt.Errorf("conflict matrix row %d has %d columns, want %d", i, len(row), n)
		}
	}
	for i := 0; i < n; i++ {
		if in.Conflicts[i][i] {
			return fmt.Errorf("conflict matrix diagonal is nonzero at %d (%s conflicts with itself)", i, in.Subjects[i])
		}
		for j := i + 1; j < n; j++ {
			if in.Conflicts[i][j] != in.Conflicts[j][i] {
				return fmt.Errorf("conflict matrix is asymmetric at (%d,%d)", i, j)
			}
		}
	}
	return nil
}

// N returns the number of subjects.
func (in Instance) N() int { return len(in.Subjects) }

// Coupling derives the interaction-weight matrix: -1 for each conflicting
// pair, 0 elsewhere. The result is a pure function of Conflicts and is never
// mutated afterwards.
func (in Instance) Coupling() *mat.SymDense {
	n := len(in.Subjects)
	j := mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			if in.Conflicts[a][b] {
				j.SetSym(a, b, -1)
			}
		}
	}
	return j
}

// ConflictPairs counts unordered conflicting pairs in the relation. It is the
// upper bound for any schedule's residual conflict count.
func (in Instance) ConflictPairs() int {
	count := 0
	for i := range in.Conflicts {
		for j := i + 1; j < len(in.Conflicts); j++ {
			if in.Conflicts[i][j] {
				count++
			}
		}
	}
	return count
}

// Fingerprint returns a stable hex digest of the instance (subjects plus
// conflict relation), used as the best-store key. Two instances fingerprint
// equal iff they are structurally identical.
func (in Instance) Fingerprint() string {
	h := sha256.New()
	for _, s := range in.Subjects {
		fmt.Fprintf(h, "s:%s\n", s)
	}
	for i, row := range in.Conflicts {
		fmt.Fprintf(h, "r%d:", i)
		for _, c := range row {
			if c {
				h.Write([]byte{'1'})
			} else {
				h.Write([]byte{'0'})
			}
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// instanceFile is the on-disk JSON shape. The matrix uses 0/1 ints rather
// than booleans so hand-written files stay compact.
type instanceFile struct {
	Subjects  []string `json:"subjects"`
	Conflicts [][]int  `json:"conflicts"`
}

// Load reads and validates an instance from a JSON file:
//
//	{"subjects": ["math", "physics"], "conflicts": [[0,1],[1,0]]}
func Load(path string) (Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Instance{}, fmt.Errorf("read instance: %w", err)
	}
	var f instanceFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Instance{}, fmt.Errorf("parse instance %s: %w", path, err)
	}

	conflicts := make([][]bool, len(f.Conflicts))
	for i, row := range f.Conflicts {
		conflicts[i] = make([]bool, len(row))
		for j, v := range row {
			switch v {
			case 0:
				// no conflict
			case 1:
				conflicts[i][j] = true
			default:
				return Instance{}, fmt.Errorf("instance %s: conflict value at (%d,%d) is %d, want 0 or 1", path, i, j, v)
			}
		}
	}

	in := Instance{Subjects: f.Subjects, Conflicts: conflicts}
	if err := in.Validate(); err != nil {
		return Instance{}, fmt.Errorf("instance %s: %w", path, err)
	}
	return in, nil
}
