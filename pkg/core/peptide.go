package core

import "math"

// Peptide is a synthesis target with per-position residue masses resolved.
// It is immutable once built.
type Peptide struct {
	Sequence string    // One-letter codes in synthesis order
	CapMass  float64   // Terminal cap contribution, added once per chain
	Masses   []float64 // Table mass plus adjustment per position
}

// NewPeptide resolves residue masses for sequence. A nil adjustments slice
// means no adjustments; any other length must match the sequence.
func NewPeptide(sequence string, adjustments []float64, capMass float64) (*Peptide, error) {
	if sequence == "" {
		return nil, invalid("peptide", "sequence is empty")
	}
	n := len([]rune(sequence))
	if adjustments == nil {
		adjustments = make([]float64, n)
	}
	if len(adjustments) != n {
		return nil, invalid("adjustments", "got %d values for %d residues", len(adjustments), n)
	}
	if !isFinite(capMass) {
		return nil, invalid("cap mass", "must be finite")
	}

	masses := make([]float64, 0, n)
	for i, aa := range []rune(sequence) {
		mass, err := ResidueMass(aa)
		if err != nil {
			return nil, &ResidueError{Symbol: aa, Position: i}
		}
		if !isFinite(adjustments[i]) {
			return nil, invalid("adjustments", "value %d must be finite", i+1)
		}
		masses = append(masses, mass+adjustments[i])
	}

	return &Peptide{
		Sequence: sequence,
		CapMass:  capMass,
		Masses:   masses,
	}, nil
}

// Len returns the number of residues.
func (p *Peptide) Len() int {
	return len(p.Masses)
}

// Mass returns the mass of the full, untruncated peptide.
func (p *Peptide) Mass() float64 {
	return CandidateMass(p.Masses, WaterMass, p.CapMass)
}

// Symbols returns the residue codes as a slice.
func (p *Peptide) Symbols() []rune {
	return []rune(p.Sequence)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
