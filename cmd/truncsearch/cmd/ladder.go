package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChrisMcGann/TruncSearch/pkg/ladder"
	"github.com/ChrisMcGann/TruncSearch/pkg/writer/sqlite"
)

var ladderCmd = &cobra.Command{
	Use:   "ladder",
	Short: "List N-terminal truncations with masses and m/z by charge",
	Long: `List every product left after losing leading residues, from the two-residue
suffix up to the full peptide, with its mass and m/z at charges 1 to 8.

Examples:
  truncsearch ladder --peptide YGGFLRRIRPKLK
  truncsearch ladder -p YGGFLRRIRPKLK --cap 0 --mods "Acetyl@-1" --out ladder.db`,
	RunE: runLadder,
}

func init() {
	ladderCmd.Flags().StringVarP(&peptide, "peptide", "p", "", "Peptide sequence (required)")
	ladderCmd.Flags().Float64Var(&capMass, "cap", 0, "Terminal cap mass (default from config, 41.0265)")
	ladderCmd.Flags().StringVar(&modString, "mods", "", "Modifications, e.g. 'Oxidation@M8;57.021464@C2'")
	ladderCmd.Flags().StringVar(&adjustCSV, "adjust", "", "Comma-separated mass adjustment per residue")
	ladderCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Append the ladder to this SQLite database")

	ladderCmd.MarkFlagRequired("peptide")
}

func runLadder(cmd *cobra.Command, args []string) error {
	seq := strings.ToUpper(strings.TrimSpace(peptide))

	adj, err := resolveAdjustments(seq, modString, adjustCSV)
	if err != nil {
		return err
	}
	capValue := floatFlag(cmd, "cap", capMass, cfg.Search.CapMass)

	rows, err := ladder.List(seq, adj, capValue)
	if err != nil {
		return err
	}

	fmt.Printf("%-*s  %12s", len(seq), "Sequence", "Mass")
	for k := 1; k <= ladder.MaxCharge; k++ {
		fmt.Printf("  %10s", fmt.Sprintf("k=%d", k))
	}
	fmt.Println()
	for _, row := range rows {
		fmt.Printf("%*s  %12.4f", len(seq), row.Sequence, row.Mass)
		for _, mz := range row.MZ {
			fmt.Printf("  %10.4f", mz)
		}
		fmt.Println()
	}

	if outputFile != "" {
		writer, err := sqlite.NewWriter(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output database: %w", err)
		}
		defer writer.Close()

		if _, err := writer.WriteLadder(seq, adj, capValue, rows); err != nil {
			return err
		}
		if err := writer.Finalize(); err != nil {
			return fmt.Errorf("failed to finalize database: %w", err)
		}
		log.Info("ladder written", zap.String("output", outputFile), zap.Int("rows", len(rows)))
	}

	return nil
}
