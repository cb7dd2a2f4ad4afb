// Package search enumerates truncated and residue-deleted side products of a
// peptide whose mass matches an observed target.
package search

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChrisMcGann/TruncSearch/pkg/core"
)

// ErrNodeLimit is returned when a query visits more candidates than its
// MaxNodes bound allows.
var ErrNodeLimit = errors.New("search node limit exceeded")

// Query describes a single target-mass search.
type Query struct {
	Peptide     string    // Expected synthesis product
	Adjustments []float64 // Per-residue mass shifts (nil = none)
	TargetMass  float64   // Observed mass to explain
	Tolerance   float64   // Absolute mass tolerance, strict
	IgnoreCount int       // Trailing residues that are never deleted
	CapMass     float64   // Terminal cap mass
	MaxNodes    int       // Candidates to visit before giving up (0 = no limit)
}

// Match is a candidate side product whose mass lies within tolerance.
type Match struct {
	Pattern   string  // Original sequence with dropped residues marked '*'
	Mass      float64 // Candidate mass including cap
	Deletions int     // Number of dropped residues
	Delta     float64 // Mass - TargetMass
}

// Validate checks the numeric query parameters. Sequence and adjustments are
// checked when the peptide is resolved.
func (q *Query) Validate() error {
	if math.IsNaN(q.TargetMass) || math.IsInf(q.TargetMass, 0) {
		return &core.QueryError{Field: "target mass", Message: "must be finite"}
	}
	if math.IsNaN(q.Tolerance) || q.Tolerance < 0 {
		return &core.QueryError{Field: "tolerance", Message: fmt.Sprintf("must be non-negative, got %v", q.Tolerance)}
	}
	if q.IgnoreCount < 0 {
		return &core.QueryError{Field: "ignore", Message: fmt.Sprintf("must be non-negative, got %d", q.IgnoreCount)}
	}
	if n := len([]rune(q.Peptide)); q.IgnoreCount >= n && n > 0 {
		return &core.QueryError{
			Field:   "ignore",
			Message: fmt.Sprintf("ignoring %d of %d residues leaves nothing to delete", q.IgnoreCount, n),
		}
	}
	if q.MaxNodes < 0 {
		return &core.QueryError{Field: "max nodes", Message: "must be non-negative"}
	}
	return nil
}

// Search returns every candidate within tolerance of the target, in the
// order they are visited: the full peptide first, then deeper deletions,
// leftmost deletion index first. On error no matches are returned.
func Search(q Query) ([]Match, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	pep, err := core.NewPeptide(q.Peptide, q.Adjustments, q.CapMass)
	if err != nil {
		return nil, err
	}

	s := newSearcher(pep, q)
	if err := s.visit(0); err != nil {
		return nil, err
	}
	return s.matches, nil
}

// searcher holds the per-query state of one search. The current candidate
// is the list of surviving original indices in kept; deletions shift it in
// place and are undone on return.
type searcher struct {
	pep     *core.Peptide
	symbols []rune
	q       Query

	kept    []int
	scratch []float64
	visited int
	matches []Match
}

func newSearcher(pep *core.Peptide, q Query) *searcher {
	kept := make([]int, pep.Len())
	for i := range kept {
		kept[i] = i
	}
	return &searcher{
		pep:     pep,
		symbols: pep.Symbols(),
		q:       q,
		kept:    kept,
		scratch: make([]float64, 0, pep.Len()),
	}
}

func (s *searcher) mass() float64 {
	s.scratch = s.scratch[:0]
	for _, idx := range s.kept {
		s.scratch = append(s.scratch, s.pep.Masses[idx])
	}
	return core.CandidateMass(s.scratch, core.WaterMass, s.pep.CapMass)
}

// visit evaluates the current candidate and recurses into every deletion at
// or after cursor n, excluding the protected trailing window.
func (s *searcher) visit(n int) error {
	s.visited++
	if s.q.MaxNodes > 0 && s.visited > s.q.MaxNodes {
		return fmt.Errorf("%w: visited more than %d candidates of %s", ErrNodeLimit, s.q.MaxNodes, s.pep.Sequence)
	}

	mass := s.mass()
	if math.Abs(mass-s.q.TargetMass) < s.q.Tolerance {
		s.record(mass)
	}

	// Deleting more residues only loses mass.
	if mass < s.q.TargetMass {
		return nil
	}

	for i := n; i < len(s.kept)-s.q.IgnoreCount && len(s.kept) > 1; i++ {
		removed := s.kept[i]
		s.kept = append(s.kept[:i], s.kept[i+1:]...)

		err := s.visit(i)

		s.kept = s.kept[:len(s.kept)+1]
		copy(s.kept[i+1:], s.kept[i:])
		s.kept[i] = removed

		if err != nil {
			return err
		}
	}
	return nil
}

func (s *searcher) record(mass float64) {
	kept := make([]rune, len(s.kept))
	for i, idx := range s.kept {
		kept[i] = s.symbols[idx]
	}
	pattern := core.AlignDeletionPattern(s.pep.Sequence, string(kept))
	s.matches = append(s.matches, Match{
		Pattern:   pattern,
		Mass:      mass,
		Deletions: core.CountDeletions(pattern),
		Delta:     mass - s.q.TargetMass,
	})
}
