package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/testing/fixtures"
	"github.com/penwyp/go-log-pager/internal/util"
	"github.com/spf13/cobra"
)

var (
	genLines int
	genSeed  uint64
	genStep  time.Duration
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Write a sample log file",
	Long: `Writes --lines random entries to --file, replacing its contents.
Categories are drawn from --filter. The output is reproducible for a given --seed.`,
	Args: cobra.NoArgs,
	RunE: runGen,
}

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().IntVarP(&genLines, "lines", "n", 100000,
		"Number of entries to write")
	genCmd.Flags().Uint64Var(&genSeed, "seed", 1,
		"Random seed")
	genCmd.Flags().DurationVar(&genStep, "step", 7*time.Millisecond,
		"Time between consecutive entries")
}

func runGen(cmd *cobra.Command, args []string) error {
	s := loadSettings(cfg)

	if genLines < 0 {
		return fmt.Errorf("--lines must not be negative, got %d", genLines)
	}
	categories, err := model.ParseCategorySet(s.Filter)
	if err != nil {
		return err
	}
	if err := ensureDir(filepath.Dir(s.File)); err != nil {
		return err
	}

	start := time.Now()
	g := fixtures.NewLogGenerator(fixtures.GeneratorOptions{
		Seed:       genSeed,
		Start:      util.GetTimeProvider().Now().Add(-time.Duration(genLines) * genStep),
		Step:       genStep,
		Categories: categories,
	})
	written, err := g.WriteFile(s.File, genLines)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", s.File, err)
	}

	util.LogInfof("Generated %d entries (%d bytes) in %s", genLines, written, s.File)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s entries (%s) to %s in %v\n",
		util.FormatNumber(int64(genLines)), util.FormatBytes(written), s.File, time.Since(start).Round(time.Millisecond))
	return nil
}
