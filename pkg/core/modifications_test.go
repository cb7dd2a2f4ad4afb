package core

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseModString(t *testing.T) {
	db := DefaultModDatabase()

	tests := []struct {
		name     string
		modStr   string
		sequence string
		want     []Modification
		wantErr  bool
	}{
		{"empty", "", "PEPTIDE", nil, false},
		{
			name:     "named with residue",
			modStr:   "Oxidation@M2",
			sequence: "AMG",
			want:     []Modification{{Mass: 15.994915, Position: 1, Name: "Oxidation"}},
		},
		{
			name:     "numeric mass and N-term",
			modStr:   "57.021464@3; Acetyl@-1",
			sequence: "AGC",
			want: []Modification{
				{Mass: 57.021464, Position: 2, Name: "57.021464"},
				{Mass: 42.010565, Position: -1, Name: "Acetyl"},
			},
		},
		{"unknown name", "Nonsense@1", "AG", nil, true},
		{"residue mismatch", "Oxidation@C2", "AMG", nil, true},
		{"position past end", "Oxidation@9", "AMG", nil, true},
		{"missing at", "Oxidation", "AMG", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ParseModString(tt.modStr, tt.sequence)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidQuery) {
					t.Errorf("expected ErrInvalidQuery, got %v", err)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d mods, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("mod %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAdjustments(t *testing.T) {
	mods := []Modification{
		{Mass: 42.010565, Position: -1, Name: "Acetyl"},
		{Mass: 1.0, Position: 0, Name: "1.0"},
		{Mass: 15.994915, Position: 2, Name: "Oxidation"},
	}

	adj, err := Adjustments("AGM", mods)
	if err != nil {
		t.Fatalf("Adjustments() error: %v", err)
	}

	want := []float64{43.010565, 0, 15.994915}
	for i := range want {
		if math.Abs(adj[i]-want[i]) > 1e-9 {
			t.Errorf("adjustment %d = %.6f, want %.6f", i, adj[i], want[i])
		}
	}

	if _, err := Adjustments("AG", []Modification{{Mass: 1, Position: 5}}); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery for out-of-range position, got %v", err)
	}
}

func TestLoadFromCSV(t *testing.T) {
	db := NewModDatabase()
	csv := "mod,massshift,aa\nCustomCap,123.45,K\n\nOther,-1.5,S\n"

	if err := db.LoadFromCSV(strings.NewReader(csv)); err != nil {
		t.Fatalf("LoadFromCSV() error: %v", err)
	}
	if db.Len() != 2 {
		t.Fatalf("expected 2 mods, got %d", db.Len())
	}
	if mass, ok := db.GetMass("CustomCap"); !ok || mass != 123.45 {
		t.Errorf("CustomCap = %v, %v", mass, ok)
	}

	bad := "mod,massshift\nBroken,abc\n"
	if err := NewModDatabase().LoadFromCSV(strings.NewReader(bad)); err == nil {
		t.Error("expected error for invalid mass")
	}
}
