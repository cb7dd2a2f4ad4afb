package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChrisMcGann/TruncSearch/pkg/filter"
	"github.com/ChrisMcGann/TruncSearch/pkg/search"
	"github.com/ChrisMcGann/TruncSearch/pkg/writer/sqlite"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find side products of a peptide matching an observed mass",
	Long: `Search every truncation and residue deletion of a peptide for products whose
mass lies within tolerance of the observed mass.

Examples:
  # Explain an impurity at 1058.6 in a capped peptide
  truncsearch search --peptide YGGFLRRIRPKLK --mass 1058.6

  # Protect the last residue, tighter tolerance, modifications by name
  truncsearch search -p YGGFLRRIRPKLK -m 1100.62 --tol 0.05 --ignore 1 --mods "Acetyl@-1;Oxidation@8"

  # Keep the 10 closest products and store them
  truncsearch search -p GLSKGCFGLKLDRIGSMSGLGC -m 1706.8 --top-n 10 --out results.db`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&peptide, "peptide", "p", "", "Expected peptide sequence (required)")
	searchCmd.Flags().Float64VarP(&targetMass, "mass", "m", 0, "Observed mass to explain (required)")
	searchCmd.Flags().Float64Var(&tolerance, "tol", 0, "Absolute mass tolerance (default from config, 1.0)")
	searchCmd.Flags().IntVar(&ignoreCount, "ignore", 0, "Trailing residues that are never deleted")
	searchCmd.Flags().Float64Var(&capMass, "cap", 0, "Terminal cap mass (default from config, 41.0265)")
	searchCmd.Flags().StringVar(&modString, "mods", "", "Modifications, e.g. 'Oxidation@M8;57.021464@C2'")
	searchCmd.Flags().StringVar(&adjustCSV, "adjust", "", "Comma-separated mass adjustment per residue")
	searchCmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "Abort after visiting this many candidates (0 = no limit)")
	searchCmd.Flags().IntVar(&topN, "top-n", 0, "Keep only the N matches closest to the mass (0 = all)")
	searchCmd.Flags().IntVar(&maxDeletions, "max-deletions", 0, "Drop matches with more deleted residues (0 = no limit)")
	searchCmd.Flags().BoolVar(&sortByDelta, "sort", false, "Print matches by closeness instead of search order")
	searchCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Append results to this SQLite database")

	searchCmd.MarkFlagRequired("peptide")
	searchCmd.MarkFlagRequired("mass")
}

func runSearch(cmd *cobra.Command, args []string) error {
	seq := strings.ToUpper(strings.TrimSpace(peptide))

	adj, err := resolveAdjustments(seq, modString, adjustCSV)
	if err != nil {
		return err
	}

	q := search.Query{
		Peptide:     seq,
		Adjustments: adj,
		TargetMass:  targetMass,
		Tolerance:   floatFlag(cmd, "tol", tolerance, cfg.Search.Tolerance),
		IgnoreCount: intFlag(cmd, "ignore", ignoreCount, cfg.Search.Ignore),
		CapMass:     floatFlag(cmd, "cap", capMass, cfg.Search.CapMass),
		MaxNodes:    intFlag(cmd, "max-nodes", maxNodes, cfg.Search.MaxNodes),
	}

	filterConfig := &filter.Config{
		TopN:         intFlag(cmd, "top-n", topN, cfg.Search.TopN),
		MaxDeletions: intFlag(cmd, "max-deletions", maxDeletions, cfg.Search.MaxDeletions),
	}

	start := time.Now()
	matches, err := search.Search(q)
	if err != nil {
		return err
	}
	log.Debug("search complete",
		zap.String("peptide", q.Peptide),
		zap.Int("matches", len(matches)),
		zap.Duration("elapsed", time.Since(start)),
	)

	kept := filterConfig.Apply(matches)
	if sortByDelta {
		filter.SortByDelta(kept)
	}

	printQuery(q)
	printMatches(kept)
	if len(kept) < len(matches) {
		fmt.Printf("(%d of %d matches shown after filtering)\n", len(kept), len(matches))
	}

	if outputFile != "" {
		writer, err := sqlite.NewWriter(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output database: %w", err)
		}
		defer writer.Close()

		if _, err := writer.WriteResult(q, kept); err != nil {
			return err
		}
		if err := writer.Finalize(); err != nil {
			return fmt.Errorf("failed to finalize database: %w", err)
		}
		log.Info("results written", zap.String("output", outputFile), zap.String("run_id", writer.RunID()))
	}

	return nil
}

func printQuery(q search.Query) {
	fmt.Printf("Peptide: %s\n", q.Peptide)
	fmt.Printf("Target mass: %.4f (tolerance %.4f)\n", q.TargetMass, q.Tolerance)
	fmt.Printf("Cap mass: %.4f\n", q.CapMass)
	if q.IgnoreCount > 0 {
		fmt.Printf("Protected trailing residues: %d\n", q.IgnoreCount)
	}
}

func printMatches(matches []search.Match) {
	if len(matches) == 0 {
		fmt.Printf("\nNo matches found\n")
		return
	}

	fmt.Printf("\n%-4s  %-*s  %12s  %9s  %s\n", "#", len(matches[0].Pattern), "Pattern", "Mass", "Delta", "Deleted")
	for i, m := range matches {
		fmt.Printf("%-4d  %s  %12.4f  %+9.4f  %d\n", i+1, m.Pattern, m.Mass, m.Delta, m.Deletions)
	}
	fmt.Printf("\n%d matches\n", len(matches))
}
