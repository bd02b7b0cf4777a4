package formatter

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/penwyp/go-log-pager/internal/core/model"
)

type CSVFormatter struct {
	opts Options
}

func NewCSVFormatter(opts Options) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

func (f *CSVFormatter) Format(w io.Writer, page *model.Page) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Category", "Timestamp", "Content"}); err != nil {
		return err
	}

	loc := f.opts.location()
	for _, entry := range page.Entries {
		record := []string{
			entry.Category.String(),
			entry.Timestamp.In(loc).Format(time.RFC3339Nano),
			entry.Content,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
