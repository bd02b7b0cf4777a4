package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"golang.org/x/term"
)

// Formatter renders a page of entries.
type Formatter interface {
	Format(w io.Writer, page *model.Page) error
}

// Options controls rendering. The zero value renders an 80 column table
// without colour in UTC.
type Options struct {
	Width    int
	Color    bool
	Location *time.Location
	// Source names the file the page came from; it appears in headers only.
	Source string
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o Options) width() int {
	if o.Width <= 0 {
		return defaultWidth
	}
	return o.Width
}

const defaultWidth = 80

// Formats lists the names accepted by New.
var Formats = []string{"table", "json", "csv", "summary"}

// New returns the formatter registered under name.
func New(name string, opts Options) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return NewTableFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	case "csv":
		return NewCSVFormatter(opts), nil
	case "summary":
		return NewSummaryFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (valid: %s)", name, strings.Join(Formats, ", "))
	}
}

// TerminalWidth returns the width of the terminal on f, or 0 when f is not a terminal.
func TerminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
