package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/data/watcher"
	"github.com/penwyp/go-log-pager/internal/presentation/formatter"
	"github.com/penwyp/go-log-pager/internal/presentation/interaction"
	"github.com/penwyp/go-log-pager/internal/util"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through the log file interactively",
	Long: `Shows one page at a time and reads single keys:

  n, j, space, →, ↓   next page
  p, k, b, ←, ↑       previous page
  g, Home             first page
  r                   reload the current page
  q, Esc, Ctrl+C      quit

The file is watched while browsing. When it is truncated, replaced or
removed, paging restarts from the beginning. The position is saved on exit.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !formatter.IsTerminal(os.Stdin) || !formatter.IsTerminal(os.Stdout) {
		return errors.New("browse requires an interactive terminal; use next and prev instead")
	}

	s := loadSettings(cfg)
	if s.Output != "table" && s.Output != "summary" {
		s.Output = "table"
	}
	p, err := newPager(s, os.Stdout)
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(s.File)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.File, err)
	}
	defer fw.Close()

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to read keyboard: %w", err)
	}
	defer keyboard.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Print(util.HideCursor)
	defer fmt.Print(util.ShowCursor)

	return p.browse(ctx, keyboard.Events(), fw.Events())
}

// browse runs the interactive loop until quit or ctx is done. The page is
// kept in memory and stored once on exit.
func (p *pager) browse(ctx context.Context, keys <-chan interaction.KeyEvent, changes <-chan watcher.FileEvent) error {
	page := p.current()
	status := ""
	if page.Depth() == 0 {
		if _, err := p.engine.LoadNext(page); err != nil {
			return err
		}
	} else if _, err := p.engine.Reload(page); err != nil {
		util.LogInfof("Stored page for %s could not be reloaded, starting over: %v", p.settings.File, err)
		page = model.NewPage(p.filter)
		if _, err := p.engine.LoadNext(page); err != nil {
			return err
		}
	}

	defer func() {
		if err := p.store.Set(p.settings.File, page); err != nil {
			util.LogWarnf("Failed to save page position for %s: %v", p.settings.File, err)
		}
	}()

	for {
		p.draw(page, status)
		status = ""

		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			util.LogDebugf("File %s %s (%s, %d bytes)", event.Path, event.Kind, event.Operation, event.Size)
			switch event.Kind {
			case watcher.Grown:
				if page.IsFinalPage() {
					status = p.apply(page, p.engine.Reload)
				}
			case watcher.Removed:
				status = fmt.Sprintf("%s was removed", p.settings.File)
			default:
				page.Reset()
				status = fmt.Sprintf("%s was %s, restarted from the first page", p.settings.File, event.Kind)
				if msg := p.apply(page, p.engine.LoadNext); msg != "" {
					status = msg
				}
			}

		case key := <-keys:
			switch interaction.ActionFor(key) {
			case interaction.ActionQuit:
				return nil
			case interaction.ActionNext:
				if page.IsFinalPage() {
					status = "Already on the final page"
				}
				if msg := p.apply(page, p.engine.LoadNext); msg != "" {
					status = msg
				}
			case interaction.ActionPrevious:
				if page.IsFirstPage() {
					status = "Already on the first page"
				}
				if msg := p.apply(page, p.engine.LoadPrevious); msg != "" {
					status = msg
				}
			case interaction.ActionFirst:
				page.Reset()
				status = p.apply(page, p.engine.LoadNext)
			case interaction.ActionRefresh:
				status = p.apply(page, p.engine.Reload)
			}
		}
	}
}

// apply runs one engine operation on page and returns a status message when
// it fails.
func (p *pager) apply(page *model.Page, load func(*model.Page) (*model.Page, error)) string {
	if _, err := load(page); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return ""
}

func (p *pager) draw(page *model.Page, status string) {
	fmt.Fprint(p.out, util.ClearScreen+util.MoveCursorHome)
	if err := p.render(page); err != nil {
		util.LogErrorf("Failed to render page: %v", err)
	}
	if status != "" {
		fmt.Fprintf(p.out, "%s%s%s\n", util.ColorYellow, status, util.ColorReset)
	}
	fmt.Fprint(p.out, "n next · p previous · g first · r reload · q quit")
}
