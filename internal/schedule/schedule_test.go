package schedule

import (
	"reflect"
	"strings"
	"testing"

	"github.com/haricheung/examsched/internal/problem"
)

func demoInstance() problem.Instance {
	return problem.Default()
}

// --- Decode ---

func TestDecode(t *testing.T) {
	subjects := []string{"math", "physics", "chemistry"}
	spins := []int{1, -1, 1}
	labels := DefaultLabels()

	got := Decode(subjects, spins, labels)
	want := []Assignment{
		{Subject: "math", Slot: "morning session"},
		{Subject: "physics", Slot: "afternoon session"},
		{Subject: "chemistry", Slot: "morning session"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode = %+v, want %+v", got, want)
	}
}

func TestDecode_Idempotent(t *testing.T) {
	// Decoding the same final state twice yields identical output
	subjects := []string{"a", "b"}
	spins := []int{-1, 1}
	labels := Labels{Morning: "AM", Afternoon: "PM"}

	first := Decode(subjects, spins, labels)
	second := Decode(subjects, spins, labels)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second decode differs: %+v vs %+v", first, second)
	}
}

func TestDecode_LengthMismatchPanics(t *testing.T) {
	// A spin vector shorter than the subject list is a caller bug; the
	// decoder must fail loudly rather than index out of range
	defer func() {
		if recover() == nil {
			t.Error("expected panic for spin/subject length mismatch")
		}
	}()
	Decode([]string{"a", "b", "c"}, []int{1, -1}, DefaultLabels())
}

func TestDecode_CustomLabels(t *testing.T) {
	got := Decode([]string{"x"}, []int{1}, Labels{Morning: "早上", Afternoon: "下午"})
	if got[0].Slot != "早上" {
		t.Errorf("slot = %q, want %q", got[0].Slot, "早上")
	}
}

// --- CountConflicts ---

func TestCountConflicts(t *testing.T) {
	in := demoInstance()

	tests := []struct {
		name  string
		spins []int
		want  int
	}{
		// math/physics/chemistry conflicts all satisfied by splitting math
		// from physics+chemistry and english from physics
		{"conflict-free", []int{1, 1, 1, -1, -1}, 0},
		// everything in one slot: all 3 conflicting pairs collide
		{"all same slot", []int{1, 1, 1, 1, 1}, 3},
		// math with physics: one collision
		{"one collision", []int{1, 1, -1, 1, -1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountConflicts(in, tt.spins); got != tt.want {
				t.Errorf("CountConflicts = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountConflicts_BoundedByPairCount(t *testing.T) {
	in := demoInstance()
	spins := []int{-1, -1, -1, -1, -1}
	if got, max := CountConflicts(in, spins), in.ConflictPairs(); got > max {
		t.Errorf("CountConflicts = %d exceeds pair count %d", got, max)
	}
}

// --- RenderTable ---

func TestRenderTable_AlignsColons(t *testing.T) {
	out := RenderTable([]Assignment{
		{Subject: "math", Slot: "AM"},
		{Subject: "chemistry", Slot: "PM"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if idx0, idx1 := strings.Index(lines[0], ":"), strings.Index(lines[1], ":"); idx0 != idx1 {
		t.Errorf("colons misaligned: %d vs %d\n%s", idx0, idx1, out)
	}
}

func TestRenderTable_CJKWidths(t *testing.T) {
	// CJK characters are double-width; padding must use display width so the
	// slot column starts at the same terminal cell on every line
	// Both subjects have display width 4 even though byte lengths differ.
	out := RenderTable([]Assignment{
		{Subject: "数学", Slot: "AM"},
		{Subject: "chem", Slot: "PM"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	// Equal display widths mean neither line gets padding
	if strings.Contains(lines[0], "  :") || strings.Contains(lines[1], "  :") {
		t.Errorf("unexpected padding for equal-width subjects:\n%s", out)
	}
}
