// Package schedule turns an optimized spin vector back into a human-readable
// exam timetable and scores its residual conflicts.
package schedule

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/haricheung/examsched/internal/problem"
)

// Labels holds the display names for the two timeslots. Morning labels +1
// spins, Afternoon labels -1 spins.
type Labels struct {
	Morning   string
	Afternoon string
}

// DefaultLabels matches the classroom demo output.
func DefaultLabels() Labels {
	return Labels{Morning: "morning session", Afternoon: "afternoon session"}
}

// Assignment pairs one subject with its assigned slot label.
type Assignment struct {
	Subject string `json:"subject"`
	Slot    string `json:"slot"`
}

// Decode maps each spin to its slot label, preserving subject order. It is a
// pure function: calling it twice on the same inputs yields identical output.
// The spin vector must be the same length as the subject list; a mismatch is
// a caller bug and panics.
func Decode(subjects []string, spins []int, labels Labels) []Assignment {
	if len(spins) != len(subjects) {
		panic(fmt.Sprintf("schedule: %d spins for %d subjects", len(spins), len(subjects)))
	}
	out := make([]Assignment, len(subjects))
	for i, name := range subjects {
		slot := labels.Afternoon
		if spins[i] == 1 {
			slot = labels.Morning
		}
		out[i] = Assignment{Subject: name, Slot: slot}
	}
	return out
}

// CountConflicts counts unordered conflicting pairs assigned to the same
// slot. This is the human-facing objective: 0 means a conflict-free
// timetable, independent of the energy scale.
func CountConflicts(in problem.Instance, spins []int) int {
	count := 0
	for i := range spins {
		for j := i + 1; j < len(spins); j++ {
			if in.Conflicts[i][j] && spins[i] == spins[j] {
				count++
			}
		}
	}
	return count
}

// RenderTable formats assignments as "<subject>: <slot>" lines with the
// colons vertically aligned. Widths are display widths, not byte or rune
// counts, so CJK subject names line up correctly.
func RenderTable(assignments []Assignment) string {
	width := 0
	for _, a := range assignments {
		if w := runewidth.StringWidth(a.Subject); w > width {
			width = w
		}
	}

	var sb strings.Builder
	for _, a := range assignments {
		pad := width - runewidth.StringWidth(a.Subject)
		fmt.Fprintf(&sb, "  %s%s: %s\n", a.Subject, strings.Repeat(" ", pad), a.Slot)
	}
	return sb.String()
}
