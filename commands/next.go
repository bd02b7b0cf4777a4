package commands

import (
	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:     "next",
	Aliases: []string{"n"},
	Short:   "Show the next page of the log file",
	Long: `Loads the page after the stored position for the file and filter and
remembers the new position. The first call shows the first page; on the
final page the same page is shown again.`,
	Args: cobra.NoArgs,
	RunE: runStep(model.Forward),
}

var prevCmd = &cobra.Command{
	Use:     "prev",
	Aliases: []string{"p", "previous"},
	Short:   "Show the previous page of the log file",
	Long: `Loads the page before the stored position for the file and filter and
remembers the new position. On the first page the first page is shown again.`,
	Args: cobra.NoArgs,
	RunE: runStep(model.Backward),
}

func init() {
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
}

func runStep(dir model.Direction) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		p, err := newPager(loadSettings(cfg), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = p.step(dir)
		return err
	}
}
