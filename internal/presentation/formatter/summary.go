package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/util"
)

// SummaryFormatter prints page position and per-category counts instead of
// the entries themselves.
type SummaryFormatter struct {
	opts Options
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(opts Options) *SummaryFormatter {
	return &SummaryFormatter{opts: opts}
}

func (f *SummaryFormatter) Format(w io.Writer, page *model.Page) error {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString("Log Page Summary\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	if f.opts.Source != "" {
		fmt.Fprintf(&sb, "File:   %s\n", f.opts.Source)
	}
	fmt.Fprintf(&sb, "Filter: %s\n\n", page.Filter)

	sb.WriteString(page.String())
	fmt.Fprintf(&sb, "Progress:     %s\n", util.FormatPercent(page.CurrentEnd(), page.TotalSize))
	fmt.Fprintf(&sb, "Depth:        %d\n\n", page.Depth())

	if len(page.Entries) == 0 {
		sb.WriteString("No entries on this page\n\n")
		sb.WriteString(strings.Repeat("=", 60) + "\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	loc := f.opts.location()
	first, last := page.Entries[0].Timestamp, page.Entries[0].Timestamp
	counts := make(map[model.Category]int)
	for _, e := range page.Entries {
		counts[e.Category]++
		if e.Timestamp.Before(first) {
			first = e.Timestamp
		}
		if e.Timestamp.After(last) {
			last = e.Timestamp
		}
	}

	fmt.Fprintf(&sb, "Time Range: %s to %s\n\n",
		first.In(loc).Format(tableTimestampLayout), last.In(loc).Format(tableTimestampLayout))

	sb.WriteString("Categories:\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for _, c := range model.CategoryAll.Categories() {
		if counts[c] == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %s  %8s  %7s\n", c, util.FormatNumber(int64(counts[c])),
			util.FormatPercent(int64(counts[c]), int64(len(page.Entries))))
	}

	sb.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
