package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ChrisMcGann/TruncSearch/pkg/core"
)

func TestRunAllPreservesOrder(t *testing.T) {
	queries := []Query{
		{Peptide: "ACDE", TargetMass: 477.1528, Tolerance: 1, CapMass: core.DefaultCapMass},
		{Peptide: "ACDEFGHK", TargetMass: 600, Tolerance: 40, IgnoreCount: 1, CapMass: core.DefaultCapMass},
		{Peptide: "AAG", TargetMass: 146.0691, Tolerance: 0.5},
		{Peptide: "YGGFLRRIRPKLK", TargetMass: 1000, Tolerance: 5, IgnoreCount: 2, CapMass: core.DefaultCapMass},
	}

	results, err := RunAll(context.Background(), queries, 3, nil)
	if err != nil {
		t.Fatalf("RunAll() error: %v", err)
	}
	if len(results) != len(queries) {
		t.Fatalf("got %d results, want %d", len(results), len(queries))
	}

	for i, q := range queries {
		want, err := Search(q)
		if err != nil {
			t.Fatalf("Search() error: %v", err)
		}
		if results[i].Query.Peptide != q.Peptide {
			t.Errorf("result %d is for %s, want %s", i, results[i].Query.Peptide, q.Peptide)
		}
		if !reflect.DeepEqual(results[i].Matches, want) {
			t.Errorf("result %d differs from a sequential search", i)
		}
	}
}

func TestRunAllPropagatesError(t *testing.T) {
	queries := []Query{
		{Peptide: "ACDE", TargetMass: 477.1528, Tolerance: 1},
		{Peptide: "ACBE", TargetMass: 477.1528, Tolerance: 1},
	}

	results, err := RunAll(context.Background(), queries, 1, nil)
	if !errors.Is(err, core.ErrUnknownResidue) {
		t.Fatalf("expected ErrUnknownResidue, got %v", err)
	}
	if results != nil {
		t.Error("expected no results on failure")
	}
}

func TestRunAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunAll(ctx, []Query{{Peptide: "ACDE", TargetMass: 400, Tolerance: 1}}, 2, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
