package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current page again without moving",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	p, err := newPager(loadSettings(cfg), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	result := p.store.Get(p.settings.File, p.filter)
	if !result.Found {
		fmt.Fprintf(cmd.OutOrStdout(), "No page loaded for %s (filter %s): %s. Run 'logpager next' first.\n",
			p.settings.File, p.filter, result.MissReason)
		return nil
	}
	return p.render(result.State.Page)
}
