package problem

import (
	"os"
	"path/filepath"
	"testing"
)

// symmetric builds a bool matrix from unordered pair indices.
func symmetric(n int, pairs [][2]int) [][]bool {
	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
	}
	for _, p := range pairs {
		m[p[0]][p[1]] = true
		m[p[1]][p[0]] = true
	}
	return m
}

// --- Validate ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Instance
		wantErr bool
	}{
		{
			name: "valid",
			in:   Instance{Subjects: []string{"a", "b"}, Conflicts: symmetric(2, [][2]int{{0, 1}})},
		},
		{
			name:    "no subjects",
			in:      Instance{},
			wantErr: true,
		},
		{
			name:    "empty subject name",
			in:      Instance{Subjects: []string{"a", " "}, Conflicts: symmetric(2, nil)},
			wantErr: true,
		},
		{
			name:    "row count mismatch",
			in:      Instance{Subjects: []string{"a", "b"}, Conflicts: symmetric(3, nil)},
			wantErr: true,
		},
		{
			name: "non-square",
			in: Instance{
				Subjects:  []string{"a", "b"},
				Conflicts: [][]bool{{false, true}, {true}},
			},
			wantErr: true,
		},
		{
			name: "asymmetric",
			in: Instance{
				Subjects:  []string{"a", "b"},
				Conflicts: [][]bool{{false, true}, {false, false}},
			},
			wantErr: true,
		},
		{
			name: "self-conflict",
			in: Instance{
				Subjects:  []string{"a", "b"},
				Conflicts: [][]bool{{true, false}, {false, false}},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// --- Default ---

func TestDefault(t *testing.T) {
	in := Default()
	if err := in.Validate(); err != nil {
		t.Fatalf("default instance invalid: %v", err)
	}
	if in.N() != 5 {
		t.Fatalf("N = %d, want 5", in.N())
	}
	if got := in.ConflictPairs(); got != 3 {
		t.Errorf("ConflictPairs = %d, want 3", got)
	}
	// language (index 0) has no conflicts at all
	for j := 0; j < in.N(); j++ {
		if in.Conflicts[0][j] {
			t.Errorf("language unexpectedly conflicts with %s", in.Subjects[j])
		}
	}
}

// --- Coupling ---

func TestCoupling(t *testing.T) {
	in := Instance{Subjects: []string{"a", "b", "c"}, Conflicts: symmetric(3, [][2]int{{0, 2}})}
	j := in.Coupling()

	if got := j.At(0, 2); got != -1 {
		t.Errorf("J[0][2] = %v, want -1", got)
	}
	if got := j.At(2, 0); got != -1 {
		t.Errorf("J[2][0] = %v, want -1", got)
	}
	if got := j.At(0, 1); got != 0 {
		t.Errorf("J[0][1] = %v, want 0", got)
	}
	for i := 0; i < 3; i++ {
		if got := j.At(i, i); got != 0 {
			t.Errorf("J[%d][%d] = %v, want 0", i, i, got)
		}
	}
}

// --- Fingerprint ---

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical instances produced different fingerprints")
	}

	c := Default()
	c.Subjects = append([]string(nil), c.Subjects...)
	c.Subjects[0] = "literature"
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("distinct instances produced the same fingerprint")
	}
}

// --- Load ---

func writeInstance(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instance.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeInstance: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeInstance(t, `{
		"subjects": ["math", "physics"],
		"conflicts": [[0, 1], [1, 0]]
	}`)

	in, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if in.N() != 2 {
		t.Fatalf("N = %d, want 2", in.N())
	}
	if !in.Conflicts[0][1] || !in.Conflicts[1][0] {
		t.Error("conflict pair not loaded")
	}
	if in.Conflicts[0][0] || in.Conflicts[1][1] {
		t.Error("diagonal should be conflict-free")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad json", `{`},
		{"bad conflict value", `{"subjects": ["a", "b"], "conflicts": [[0, 2], [2, 0]]}`},
		{"asymmetric", `{"subjects": ["a", "b"], "conflicts": [[0, 1], [0, 0]]}`},
		{"nonzero diagonal", `{"subjects": ["a", "b"], "conflicts": [[1, 0], [0, 0]]}`},
		{"size mismatch", `{"subjects": ["a", "b", "c"], "conflicts": [[0, 0], [0, 0]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInstance(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
