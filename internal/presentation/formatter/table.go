package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/util"
)

const tableTimestampLayout = "2006-01-02 15:04:05.000"

var categoryColors = map[model.Category]lipgloss.Color{
	model.CategoryL: lipgloss.Color("245"),
	model.CategoryW: lipgloss.Color("214"),
	model.CategoryE: lipgloss.Color("196"),
	model.CategoryI: lipgloss.Color("39"),
	model.CategoryC: lipgloss.Color("141"),
	model.CategoryP: lipgloss.Color("78"),
}

type TableFormatter struct {
	headers []string
	opts    Options
	styles  map[model.Category]lipgloss.Style
}

func NewTableFormatter(opts Options) *TableFormatter {
	f := &TableFormatter{
		headers: []string{"#", "Cat", "Timestamp", "Content"},
		opts:    opts,
	}
	if opts.Color {
		f.styles = make(map[model.Category]lipgloss.Style, len(categoryColors))
		for c, color := range categoryColors {
			f.styles[c] = lipgloss.NewStyle().Bold(true).Foreground(color)
		}
	}
	return f
}

func (f *TableFormatter) Format(w io.Writer, page *model.Page) error {
	widths := f.calculateColumnWidths(page)

	var sb strings.Builder
	f.writeBorder(&sb, widths, "top")
	f.writeRow(&sb, f.headers, widths, nil)
	f.writeBorder(&sb, widths, "middle")

	if len(page.Entries) == 0 {
		f.writeRow(&sb, []string{"", "", "", "(no entries)"}, widths, nil)
	}
	loc := f.opts.location()
	for i, entry := range page.Entries {
		row := []string{
			strconv.Itoa(i + 1),
			entry.Category.String(),
			entry.Timestamp.In(loc).Format(tableTimestampLayout),
			entry.Content,
		}
		f.writeRow(&sb, row, widths, &entry)
	}

	f.writeBorder(&sb, widths, "bottom")
	sb.WriteString(pageFooter(page))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// calculateColumnWidths sizes the fixed columns to their content and gives
// the rest of the line to Content.
func (f *TableFormatter) calculateColumnWidths(page *model.Page) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}

	if n := len(strconv.Itoa(len(page.Entries))); n > widths[0] {
		widths[0] = n
	}
	widths[2] = max(widths[2], len(tableTimestampLayout))

	// Borders and padding: "│ " + " │ " * 3 + " │"
	fixed := widths[0] + widths[1] + widths[2] + 3*len(widths) + 1
	widths[3] = max(f.opts.width()-fixed, 16)
	return widths
}

func (f *TableFormatter) writeBorder(sb *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			sb.WriteString(middle)
		}
	}
	sb.WriteString(right)
	sb.WriteString("\n")
}

func (f *TableFormatter) writeRow(sb *strings.Builder, values []string, widths []int, entry *model.LogEntry) {
	sb.WriteString("│")
	for i, value := range values {
		var cell string
		switch i {
		case 0:
			cell = fmt.Sprintf("%*s", widths[i], value)
		case 3:
			cell = util.PadToWidth(util.TruncateToWidth(value, widths[i]), widths[i])
		default:
			cell = util.PadToWidth(value, widths[i])
		}
		if i == 1 && entry != nil {
			if style, ok := f.styles[entry.Category]; ok {
				cell = style.Render(cell)
			}
		}
		sb.WriteString(" ")
		sb.WriteString(cell)
		sb.WriteString(" │")
	}
	sb.WriteString("\n")
}

// pageFooter describes where the page sits in the file.
func pageFooter(page *model.Page) string {
	var flags []string
	if page.IsFirstPage() {
		flags = append(flags, "first page")
	}
	if page.IsFinalPage() {
		flags = append(flags, "final page")
	}
	footer := fmt.Sprintf("%s entries · bytes %s-%s of %s (%s)",
		util.FormatNumber(int64(len(page.Entries))),
		util.FormatNumber(page.CurrentStart()),
		util.FormatNumber(page.CurrentEnd()),
		util.FormatNumber(page.TotalSize),
		util.FormatPercent(page.CurrentEnd(), page.TotalSize))
	if len(flags) > 0 {
		footer += " · " + strings.Join(flags, ", ")
	}
	return footer
}
