package commands

import (
	"fmt"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/data/cache"
	"github.com/spf13/cobra"
)

var resetAll bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored page position",
	Long: `Removes the stored position for the file and filter so that the next
call starts from the first page. With --all every stored position is removed.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVar(&resetAll, "all", false,
		"Remove positions for every file and filter")
}

func runReset(cmd *cobra.Command, args []string) error {
	s := loadSettings(cfg)

	store, err := cache.NewPageStore(s.StateDir)
	if err != nil {
		return fmt.Errorf("failed to open state directory: %w", err)
	}

	if resetAll {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear state: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All page positions cleared")
		return nil
	}

	filter, err := model.ParseCategorySet(s.Filter)
	if err != nil {
		return err
	}
	if err := store.Delete(s.File, filter); err != nil {
		return fmt.Errorf("failed to remove state: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Page position cleared for %s (filter %s)\n", s.File, filter)
	return nil
}
