package query

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ChrisMcGann/TruncSearch/pkg/core"
)

var defaults = Defaults{Tolerance: 1.0, IgnoreCount: 1, CapMass: 41.0265, MaxNodes: 5000}

func TestReaderParsesQueries(t *testing.T) {
	input := `peptide,target_mass,tolerance,ignore,cap_mass,mods
# comment line
yggflrrirpklk,1205.68,0.5,2,0,Acetyl@-1

ACDE,477.15
GLSK,300,,,,Oxidation@1
`
	// Oxidation@1 lands on G at position 1; no residue letter given.
	r := NewReader(strings.NewReader(input), nil, defaults)
	queries, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(queries) != 3 {
		t.Fatalf("expected 3 queries, got %d", len(queries))
	}

	q := queries[0]
	if q.Peptide != "YGGFLRRIRPKLK" {
		t.Errorf("peptide = %s", q.Peptide)
	}
	if q.TargetMass != 1205.68 || q.Tolerance != 0.5 || q.IgnoreCount != 2 || q.CapMass != 0 {
		t.Errorf("unexpected numeric fields: %+v", q)
	}
	if len(q.Adjustments) != 13 || math.Abs(q.Adjustments[0]-42.010565) > 1e-9 {
		t.Errorf("N-term acetyl not applied: %v", q.Adjustments)
	}

	q = queries[1]
	if q.Tolerance != defaults.Tolerance || q.IgnoreCount != defaults.IgnoreCount || q.CapMass != defaults.CapMass {
		t.Errorf("defaults not applied: %+v", q)
	}
	if q.MaxNodes != defaults.MaxNodes {
		t.Errorf("MaxNodes = %d, want %d", q.MaxNodes, defaults.MaxNodes)
	}
	if q.Adjustments != nil {
		t.Errorf("expected no adjustments, got %v", q.Adjustments)
	}

	q = queries[2]
	if math.Abs(q.Adjustments[0]-15.994915) > 1e-9 {
		t.Errorf("oxidation not applied: %v", q.Adjustments)
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing target", "header\nACDE\n"},
		{"bad target", "header\nACDE,abc\n"},
		{"bad ignore", "header\nACDE,400,1,x\n"},
		{"too many fields", "header\nACDE,400,1,0,0,,extra\n"},
		{"bad mod", "header\nACDE,400,1,0,0,Nope@1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input), nil, defaults)
			if r.Next() {
				t.Fatal("Next() returned true for invalid line")
			}
			if r.Err() == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(r.Err().Error(), "line 2") {
				t.Errorf("error lacks line number: %v", r.Err())
			}
		})
	}
}

func TestReaderModErrorIsInvalidQuery(t *testing.T) {
	r := NewReader(strings.NewReader("header\nACDE,400,1,0,0,Oxidation@M2\n"), nil, defaults)
	_, err := r.ReadAll()
	if !errors.Is(err, core.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestReaderEmpty(t *testing.T) {
	r := NewReader(strings.NewReader("peptide,target_mass\n"), nil, defaults)
	queries, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(queries) != 0 {
		t.Errorf("expected no queries, got %d", len(queries))
	}
}

func TestReaderHeaderAfterBlankLines(t *testing.T) {
	input := "\n\n# impurities from lot 42\npeptide,target_mass\nACDE,477.15\n"

	queries, err := NewReader(strings.NewReader(input), nil, defaults).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(queries))
	}
	if queries[0].Peptide != "ACDE" || queries[0].TargetMass != 477.15 {
		t.Errorf("unexpected query: %+v", queries[0])
	}
}
