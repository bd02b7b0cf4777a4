package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/core/paging"
	"github.com/penwyp/go-log-pager/internal/data/cache"
	"github.com/penwyp/go-log-pager/internal/presentation/formatter"
	"github.com/penwyp/go-log-pager/internal/util"
)

// pager ties the engine, the page-state store and a formatter together for
// one file and filter.
type pager struct {
	settings  *settings
	filter    model.CategorySet
	engine    *paging.Engine
	store     cache.Store
	formatter formatter.Formatter
	out       io.Writer
}

func newPager(s *settings, out io.Writer) (*pager, error) {
	filter, err := model.ParseCategorySet(s.Filter)
	if err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		return nil, fmt.Errorf("filter %q matches no category", s.Filter)
	}

	loc, err := util.LoadLocation(s.Timezone)
	if err != nil {
		return nil, err
	}

	engine, err := paging.NewEngine(s.File, &paging.Config{
		ChunkSize:         s.ChunkSize,
		PageSize:          s.PageSize,
		DropBoundaryLines: s.DropBoundaryLines,
		Location:          loc,
	})
	if err != nil {
		return nil, err
	}

	store, err := cache.NewPageStore(s.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open state directory: %w", err)
	}

	f, err := formatter.New(s.Output, formatterOptions(s, out, loc))
	if err != nil {
		return nil, err
	}

	return &pager{
		settings:  s,
		filter:    filter,
		engine:    engine,
		store:     store,
		formatter: f,
		out:       out,
	}, nil
}

func formatterOptions(s *settings, out io.Writer, loc *time.Location) formatter.Options {
	opts := formatter.Options{
		Location: loc,
		Source:   s.File,
	}
	if f, ok := out.(*os.File); ok {
		opts.Width = formatter.TerminalWidth(f)
		opts.Color = !s.NoColor && formatter.IsTerminal(f)
	}
	return opts
}

// current returns the stored page for the file and filter, or a new page
// when nothing usable is stored.
func (p *pager) current() *model.Page {
	result := p.store.Get(p.settings.File, p.filter)
	if result.Found {
		return result.State.Page
	}
	if result.MissReason != cache.MissReasonNotFound {
		util.LogInfo("Stored position discarded, starting from the beginning",
			util.F("file", p.settings.File), util.F("filter", p.filter.String()), util.F("reason", result.MissReason.String()))
	}
	return model.NewPage(p.filter)
}

// step loads the page in direction dir, stores the new position and renders it.
func (p *pager) step(dir model.Direction) (*model.Page, error) {
	page := p.current()
	page.Direction = dir

	page, err := p.engine.LoadPage(page)
	if err != nil {
		return nil, err
	}

	if err := p.store.Set(p.settings.File, page); err != nil {
		util.LogWarnf("Failed to save page position for %s: %v", p.settings.File, err)
	}
	return page, p.render(page)
}

func (p *pager) render(page *model.Page) error {
	return p.formatter.Format(p.out, page)
}
