package commands

import (
	"fmt"
	"io"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/core/paging"
	"github.com/penwyp/go-log-pager/internal/presentation/formatter"
	"github.com/penwyp/go-log-pager/internal/util"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:    "replay",
	Short:  "Run a fixed paging sequence over the file",
	Hidden: true,
	Long: `Pages through the file without touching stored positions:
next, next, prev and ten more next under all categories, then ten next
pages under E and ten under L, each on a fresh page. Prints the summary
of every page unless --output is given.`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

// replayStep is one call in the replay sequence.
type replayStep struct {
	filter model.CategorySet
	dir    model.Direction
	fresh  bool
}

func replaySequence() []replayStep {
	steps := []replayStep{
		{filter: model.CategoryAll, dir: model.Forward, fresh: true},
		{filter: model.CategoryAll, dir: model.Forward},
		{filter: model.CategoryAll, dir: model.Backward},
	}
	for i := 0; i < 10; i++ {
		steps = append(steps, replayStep{filter: model.CategoryAll, dir: model.Forward})
	}
	for _, c := range []model.Category{model.CategoryE, model.CategoryL} {
		for i := 0; i < 10; i++ {
			steps = append(steps, replayStep{filter: model.SetOf(c), dir: model.Forward, fresh: i == 0})
		}
	}
	return steps
}

func runReplay(cmd *cobra.Command, args []string) error {
	s := loadSettings(cfg)
	if !cmd.Flags().Changed("output") && !cfg.IsSet("output") {
		s.Output = "summary"
	}

	loc, err := util.LoadLocation(s.Timezone)
	if err != nil {
		return err
	}
	engine, err := paging.NewEngine(s.File, &paging.Config{
		ChunkSize:         s.ChunkSize,
		PageSize:          s.PageSize,
		DropBoundaryLines: s.DropBoundaryLines,
		Location:          loc,
	})
	if err != nil {
		return err
	}
	f, err := formatter.New(s.Output, formatterOptions(s, cmd.OutOrStdout(), loc))
	if err != nil {
		return err
	}

	return replay(engine, f, cmd.OutOrStdout(), replaySequence())
}

func replay(engine *paging.Engine, f formatter.Formatter, out io.Writer, steps []replayStep) error {
	var page *model.Page
	for i, st := range steps {
		if st.fresh || page == nil {
			page = model.NewPage(st.filter)
		}
		page.Direction = st.dir

		if _, err := engine.LoadPage(page); err != nil {
			return fmt.Errorf("step %d (%s, filter %s): %w", i+1, st.dir, st.filter, err)
		}

		fmt.Fprintf(out, "\n#%d %s (filter %s)\n", i+1, st.dir, st.filter)
		if err := f.Format(out, page); err != nil {
			return err
		}
	}
	return nil
}
