package core

import (
	"errors"
	"math"
	"testing"
)

func TestResidueMass(t *testing.T) {
	tests := []struct {
		name    string
		symbol  rune
		want    float64
		wantErr bool
	}{
		{"alanine", 'A', 89.0477, false},
		{"glycine", 'G', 75.032, false},
		{"tryptophan", 'W', 204.0899, false},
		{"unknown B", 'B', 0, true},
		{"lowercase", 'a', 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResidueMass(tt.symbol)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResidueMass() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownResidue) {
					t.Errorf("expected ErrUnknownResidue, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ResidueMass() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllResiduesHeavierThanWater(t *testing.T) {
	if len(AminoAcidMasses) != 20 {
		t.Fatalf("expected 20 residues, got %d", len(AminoAcidMasses))
	}
	for aa, mass := range AminoAcidMasses {
		if mass <= WaterMass {
			t.Errorf("%c mass %.4f does not exceed water mass", aa, mass)
		}
	}
}

func TestCandidateMass(t *testing.T) {
	tests := []struct {
		name    string
		masses  []float64
		capMass float64
		want    float64
	}{
		{"single residue has no bonds", []float64{89.0477}, 0, 89.0477},
		{"dipeptide loses one water", []float64{89.0477, 75.032}, 0, 89.0477 + 75.032 - WaterMass},
		{"cap added once", []float64{89.0477, 75.032, 75.032}, DefaultCapMass, 89.0477 + 75.032 + 75.032 - 2*WaterMass + DefaultCapMass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CandidateMass(tt.masses, WaterMass, tt.capMass)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CandidateMass() = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestCandidateMassMonotonic(t *testing.T) {
	masses := make([]float64, 0, len(AminoAcidMasses))
	for _, aa := range "ACDEFGHIKLMNPQRSTVWY" {
		masses = append(masses, AminoAcidMasses[aa])
	}

	for size := 2; size <= len(masses); size++ {
		chain := masses[:size]
		full := CandidateMass(chain, WaterMass, DefaultCapMass)
		for drop := 0; drop < size; drop++ {
			reduced := make([]float64, 0, size-1)
			reduced = append(reduced, chain[:drop]...)
			reduced = append(reduced, chain[drop+1:]...)
			if got := CandidateMass(reduced, WaterMass, DefaultCapMass); got >= full {
				t.Fatalf("dropping index %d of %d residues raised mass %.4f -> %.4f", drop, size, full, got)
			}
		}
	}
}

func TestChargeMZ(t *testing.T) {
	if got := ChargeMZ(999, 1); got != 1000 {
		t.Errorf("ChargeMZ(999, 1) = %v, want 1000", got)
	}
	if got := ChargeMZ(998, 2); got != 500 {
		t.Errorf("ChargeMZ(998, 2) = %v, want 500", got)
	}
}
