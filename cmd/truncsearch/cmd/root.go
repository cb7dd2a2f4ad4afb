// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChrisMcGann/TruncSearch/pkg/config"
	"github.com/ChrisMcGann/TruncSearch/pkg/core"
	"github.com/ChrisMcGann/TruncSearch/pkg/logger"
)

// customModsFile is loaded from the working directory when present and no
// mods.csv is configured.
const customModsFile = "unimod_custom.csv"

var (
	// Persistent flags
	configPath string
	logLevel   string

	// Shared by search and ladder
	peptide    string
	modString  string
	adjustCSV  string
	capMass    float64
	outputFile string

	// Search flags
	targetMass   float64
	tolerance    float64
	ignoreCount  int
	maxNodes     int
	topN         int
	maxDeletions int
	sortByDelta  bool

	// Batch flags
	inputFile string
	threads   int

	// Populated by PersistentPreRunE
	cfg   config.Config
	log   *zap.Logger
	modDB *core.ModDatabase
)

var rootCmd = &cobra.Command{
	Use:   "truncsearch",
	Short: "truncsearch - Side-product search for synthetic peptides",
	Long: `truncsearch explains an observed impurity mass in a synthetic peptide by
enumerating truncated and residue-deleted products of the expected sequence.

Masses account for:
- Per-residue modifications (named or numeric, e.g. Oxidation@M8)
- A terminal cap mass added once per product
- One water lost per peptide bond`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(ladderCmd)
	rootCmd.AddCommand(batchCmd)
}

// setup loads config, logger and the modification database for every command
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log, err = logger.New(level)
	if err != nil {
		return err
	}

	modDB = core.DefaultModDatabase()
	modsPath := cfg.Mods.CSV
	if modsPath == "" {
		if _, err := os.Stat(customModsFile); err == nil {
			modsPath = customModsFile
		}
	}
	if modsPath != "" {
		if err := loadMods(modsPath); err != nil {
			// A configured file must load; the implicit one only warns
			if cfg.Mods.CSV != "" {
				return err
			}
			log.Warn("failed to load custom modifications", zap.String("path", modsPath), zap.Error(err))
		}
	}

	log.Debug("configuration loaded",
		zap.String("config", configPath),
		zap.Float64("tolerance", cfg.Search.Tolerance),
		zap.Float64("cap_mass", cfg.Search.CapMass),
		zap.Int("modifications", modDB.Len()),
	)
	return nil
}

func loadMods(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open modification CSV: %w", err)
	}
	defer f.Close()

	if err := modDB.LoadFromCSV(f); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Info("loaded custom modifications", zap.String("path", path), zap.Int("total", modDB.Len()))
	return nil
}

// resolveAdjustments combines --mods and --adjust into one adjustment per residue
func resolveAdjustments(seq, mods, adjust string) ([]float64, error) {
	var adj []float64

	if adjust != "" {
		parsed, err := parseAdjustCSV(adjust)
		if err != nil {
			return nil, err
		}
		if len(parsed) != len(seq) {
			return nil, &core.QueryError{
				Field:   "adjust",
				Message: fmt.Sprintf("got %d values for %d residues", len(parsed), len(seq)),
			}
		}
		adj = parsed
	}

	if mods != "" {
		parsed, err := modDB.ParseModString(mods, seq)
		if err != nil {
			return nil, err
		}
		modAdj, err := core.Adjustments(seq, parsed)
		if err != nil {
			return nil, err
		}
		if adj == nil {
			adj = modAdj
		} else {
			for i := range adj {
				adj[i] += modAdj[i]
			}
		}
	}

	return adj, nil
}

// parseAdjustCSV parses "0,57.02,0" into per-residue shifts
func parseAdjustCSV(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, &core.QueryError{Field: "adjust", Message: fmt.Sprintf("value %d '%s' is not a number", i+1, p)}
		}
		out[i] = v
	}
	return out, nil
}

// floatFlag returns the flag value when set on the command line, else the fallback
func floatFlag(cmd *cobra.Command, name string, value, fallback float64) float64 {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

func intFlag(cmd *cobra.Command, name string, value, fallback int) int {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}
