package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChrisMcGann/TruncSearch/pkg/filter"
	"github.com/ChrisMcGann/TruncSearch/pkg/reader/query"
	"github.com/ChrisMcGann/TruncSearch/pkg/search"
	"github.com/ChrisMcGann/TruncSearch/pkg/writer/sqlite"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many searches from a CSV file",
	Long: `Run one search per line of a CSV file, several at a time.

The file starts with a header line, then rows of
  peptide,target_mass[,tolerance,ignore,cap_mass,mods]
Empty optional columns take the config or flag defaults.

Examples:
  truncsearch batch --in impurities.csv --threads 8 --out results.db`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input CSV file (required)")
	batchCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Append results to this SQLite database")
	batchCmd.Flags().IntVar(&threads, "threads", 0, "Concurrent searches (default from config, 1)")
	batchCmd.Flags().Float64Var(&tolerance, "tol", 0, "Default tolerance for rows without one")
	batchCmd.Flags().IntVar(&ignoreCount, "ignore", 0, "Default ignore count for rows without one")
	batchCmd.Flags().Float64Var(&capMass, "cap", 0, "Default cap mass for rows without one")
	batchCmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "Abort a search after this many candidates (0 = no limit)")
	batchCmd.Flags().IntVar(&topN, "top-n", 0, "Keep only the N matches closest to each mass (0 = all)")
	batchCmd.Flags().IntVar(&maxDeletions, "max-deletions", 0, "Drop matches with more deleted residues (0 = no limit)")

	batchCmd.MarkFlagRequired("in")
}

func runBatch(cmd *cobra.Command, args []string) error {
	inFile, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	defaults := query.Defaults{
		Tolerance:   floatFlag(cmd, "tol", tolerance, cfg.Search.Tolerance),
		IgnoreCount: intFlag(cmd, "ignore", ignoreCount, cfg.Search.Ignore),
		CapMass:     floatFlag(cmd, "cap", capMass, cfg.Search.CapMass),
		MaxNodes:    intFlag(cmd, "max-nodes", maxNodes, cfg.Search.MaxNodes),
	}

	queries, err := query.NewReader(inFile, modDB, defaults).ReadAll()
	if err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries in %s", inputFile)
	}

	workers := intFlag(cmd, "threads", threads, cfg.Run.Threads)
	log.Info("running batch",
		zap.String("input", inputFile),
		zap.Int("queries", len(queries)),
		zap.Int("threads", workers),
	)

	start := time.Now()
	results, err := search.RunAll(context.Background(), queries, workers, log)
	if err != nil {
		return err
	}

	filterConfig := &filter.Config{
		TopN:         intFlag(cmd, "top-n", topN, cfg.Search.TopN),
		MaxDeletions: intFlag(cmd, "max-deletions", maxDeletions, cfg.Search.MaxDeletions),
	}

	var writer *sqlite.Writer
	if outputFile != "" {
		writer, err = sqlite.NewWriter(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output database: %w", err)
		}
		defer writer.Close()
	}

	total := 0
	for i, res := range results {
		kept := filterConfig.Apply(res.Matches)
		total += len(kept)

		fmt.Printf("\n=== Query %d ===\n", i+1)
		printQuery(res.Query)
		printMatches(kept)

		if writer != nil {
			if _, err := writer.WriteResult(res.Query, kept); err != nil {
				return fmt.Errorf("failed to write query %d: %w", i+1, err)
			}
		}
	}

	if writer != nil {
		if err := writer.Finalize(); err != nil {
			return fmt.Errorf("failed to finalize database: %w", err)
		}
	}

	fmt.Printf("\nBatch complete!\n")
	fmt.Printf("Queries: %d\n", len(results))
	fmt.Printf("Matches: %d\n", total)
	if outputFile != "" {
		fmt.Printf("Output: %s\n", outputFile)
	}
	log.Debug("batch finished", zap.Duration("elapsed", time.Since(start)))

	return nil
}
