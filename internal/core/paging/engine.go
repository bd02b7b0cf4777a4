// Package paging loads pages of log entries from a large file in either
// direction while holding at most one chunk and one page in memory.
//
// A load reads fixed-size chunks starting at an offset derived from the
// page's checkpoint stacks, scans each chunk into entries, and records a
// checkpoint pair per chunk. When the load completes its pairs are folded
// into a single level so the stacks describe the pages visited so far.
package paging

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/data/parser"
	"github.com/penwyp/go-log-pager/internal/data/scanner"
	"github.com/penwyp/go-log-pager/internal/util"
	"github.com/spf13/afero"
)

// Engine pages through one file. It keeps no per-page state; all of it
// lives in the Page passed to LoadPage. An Engine may be shared, but a
// Page must not be loaded by two calls at once.
type Engine struct {
	path    string
	cfg     Config
	scanner *scanner.ChunkScanner
}

// NewEngine creates an engine for the file at path. A nil cfg uses DefaultConfig.
func NewEngine(path string, cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		path: path,
		cfg:  c,
		scanner: scanner.NewChunkScanner(parser.NewParser(c.Location), scanner.Options{
			PageSize:          c.PageSize,
			DropBoundaryLines: c.DropBoundaryLines,
			Decoder:           c.Decoder,
		}),
	}, nil
}

// Path returns the file the engine reads.
func (e *Engine) Path() string {
	return e.path
}

// Config returns the validated configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// LoadNext loads the page after the current one.
func (e *Engine) LoadNext(page *model.Page) (*model.Page, error) {
	if page == nil {
		return nil, ErrNilPage
	}
	page.Direction = model.Forward
	return e.LoadPage(page)
}

// LoadPrevious loads the page before the current one.
func (e *Engine) LoadPrevious(page *model.Page) (*model.Page, error) {
	if page == nil {
		return nil, ErrNilPage
	}
	page.Direction = model.Backward
	return e.LoadPage(page)
}

// Reload reads the current page again, picking up entries appended to a
// partially read final page.
func (e *Engine) Reload(page *model.Page) (*model.Page, error) {
	if page == nil {
		return nil, ErrNilPage
	}
	snapshot := page.Clone()
	page.Pop()
	page.Direction = model.Forward
	if _, err := e.LoadPage(page); err != nil {
		*page = *snapshot
		return page, err
	}
	return page, nil
}

// LoadPage replaces page's entries with the neighbouring page in
// page.Direction and returns the same page. The file is opened for the
// duration of the call only. On error the page is left unchanged.
func (e *Engine) LoadPage(page *model.Page) (*model.Page, error) {
	if page == nil {
		return nil, ErrNilPage
	}

	start := time.Now()
	util.LogDebugf("Start loading %s page from %s (filter %s)", page.Direction, e.path, page.Filter)

	file, err := e.cfg.Fs.Open(e.path)
	if err != nil {
		return page, fmt.Errorf("failed to open %s: %w", e.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return page, fmt.Errorf("failed to stat %s: %w", e.path, err)
	}
	if info.IsDir() {
		return page, fmt.Errorf("failed to read %s: is a directory", e.path)
	}

	if err := checkPage(page, info.Size()); err != nil {
		return page, err
	}

	snapshot := page.Clone()
	if err := e.load(file, page, info.Size()); err != nil {
		*page = *snapshot
		util.LogErrorf("Loading %s page from %s failed: %v", page.Direction, e.path, err)
		return page, err
	}

	util.LogDebugf("Loaded %d entries [%d, %d) of %d bytes in %v (first=%t final=%t)",
		len(page.Entries), page.CurrentStart(), page.CurrentEnd(), page.TotalSize,
		time.Since(start), page.IsFirstPage(), page.IsFinalPage())
	return page, nil
}

// checkPage rejects pages whose checkpoints cannot apply to the file.
func checkPage(page *model.Page, size int64) error {
	if page.Depth() == 0 {
		page.RecordedFilter = page.Filter
		return nil
	}
	if page.Filter != page.RecordedFilter {
		return fmt.Errorf("%w: recorded %s, requested %s", ErrFilterChanged, page.RecordedFilter, page.Filter)
	}
	for _, cp := range page.EndOffsets {
		if cp.Offset > size {
			return fmt.Errorf("%w: offset %d, file size %d", ErrOffsetsBeyondFile, cp.Offset, size)
		}
	}
	return nil
}

// load runs Seek, Read, Scan, then Recover or Checkpoint until the page is
// full or the file is exhausted.
func (e *Engine) load(file afero.File, page *model.Page, size int64) error {
	page.TotalSize = size
	pos := e.seekOffset(page)
	base := page.Depth()

	buf := make([]byte, e.cfg.ChunkSize)
	faults := 0
	totalFaults := 0
	chunks := 0
	// origin is where the current chunk was first read; retries after a
	// decode fault read from further in but are checkpointed from origin.
	origin := pos

	for {
		n, err := file.ReadAt(buf, pos)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read %s at offset %d: %w", e.path, pos, err)
		}
		if n == 0 {
			if faults > 0 {
				// Only undecodable bytes were left before the end of the file.
				chunks++
				page.Push(origin, size, true)
			}
			break
		}

		if chunks == 0 && faults == 0 {
			page.Entries = make([]model.LogEntry, 0, min(e.cfg.PageSize, 1024))
		}

		atEOF := pos+int64(n) >= size
		out, err := e.scanner.Scan(buf[:n], atEOF, page)
		if err != nil {
			if !errors.Is(err, scanner.ErrDecodeFault) {
				return err
			}
			faults++
			totalFaults++
			page.Entries = page.Entries[:len(page.Entries)-out.Added]
			if faults >= e.cfg.MaxRecoveries {
				return fmt.Errorf("%w: %d consecutive faults near offset %d: %v", ErrRecoveryExhausted, faults, origin, err)
			}
			if totalFaults >= e.cfg.MaxRecoveriesPerLoad {
				return fmt.Errorf("%w: %d faults in one load, last near offset %d: %v", ErrRecoveryExhausted, totalFaults, origin, err)
			}
			next := recoveryOffset(origin, faults, size)
			util.LogWarn("Decode fault, retrying",
				util.F("offset", pos), util.F("attempt", faults), util.F("retry", next), util.F("error", err.Error()))
			pos = next
			continue
		}
		faults = 0
		chunks++

		end := min(size, pos+out.Consumed)
		page.Push(origin, end, out.Exhausted)
		util.LogDebug("Scanned chunk",
			util.F("start", origin), util.F("end", end), util.F("added", out.Added),
			util.F("filtered", out.Filtered), util.F("rejected", out.Rejected), util.F("exhausted", out.Exhausted))

		if len(page.Entries) >= e.cfg.PageSize || end >= size || end <= pos {
			break
		}
		pos = e.forwardOffset(page)
		origin = pos
	}

	switch {
	case chunks > 0:
		page.Fold(base)
	case page.Depth() == 0:
		// Nothing to read at all: an empty file is both first and final page.
		page.Entries = nil
		page.Push(pos, pos, true)
	}

	page.PreviousStartOffset = 0
	if depth := page.Depth(); depth >= 2 {
		page.PreviousStartOffset = page.StartOffsets[depth-2].Offset
	}
	return nil
}
