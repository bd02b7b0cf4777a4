package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-log-pager/internal/core/model"
)

type JSONFormatter struct {
	opts Options
}

func NewJSONFormatter(opts Options) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// pageDocument is the JSON shape of a rendered page.
type pageDocument struct {
	Source      string           `json:"source,omitempty"`
	Filter      string           `json:"filter"`
	StartOffset int64            `json:"start_offset"`
	EndOffset   int64            `json:"end_offset"`
	TotalSize   int64            `json:"total_size"`
	FirstPage   bool             `json:"first_page"`
	FinalPage   bool             `json:"final_page"`
	Count       int              `json:"count"`
	Entries     []model.LogEntry `json:"entries"`
}

func (f *JSONFormatter) Format(w io.Writer, page *model.Page) error {
	loc := f.opts.location()
	entries := make([]model.LogEntry, len(page.Entries))
	for i, e := range page.Entries {
		e.Timestamp = e.Timestamp.In(loc)
		entries[i] = e
	}

	doc := pageDocument{
		Source:      f.opts.Source,
		Filter:      page.Filter.String(),
		StartOffset: page.CurrentStart(),
		EndOffset:   page.CurrentEnd(),
		TotalSize:   page.TotalSize,
		FirstPage:   page.IsFirstPage(),
		FinalPage:   page.IsFinalPage(),
		Count:       len(entries),
		Entries:     entries,
	}

	data, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
