package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/data/parser"
)

// ErrDecodeFault is returned when a chunk cannot be interpreted as text.
// It is recoverable: the engine re-reads from a slightly earlier offset.
var ErrDecodeFault = errors.New("chunk decode fault")

// Decoder converts raw chunk bytes into text.
type Decoder func(chunk []byte) (string, error)

// DecodeUTF8 is the default Decoder. A chunk whose first byte is a UTF-8
// continuation byte was read from the middle of a character and is refused.
func DecodeUTF8(chunk []byte) (string, error) {
	if len(chunk) > 0 && !utf8.RuneStart(chunk[0]) {
		return "", fmt.Errorf("%w: chunk starts inside a multi-byte sequence (0x%02x)", ErrDecodeFault, chunk[0])
	}
	return string(chunk), nil
}

// Options configures a ChunkScanner.
type Options struct {
	// PageSize bounds the number of entries a page holds.
	PageSize int
	// DropBoundaryLines evaluates the unterminated tail of a chunk as a line
	// of its own instead of leaving it for the next chunk. The two halves of
	// a line split by a chunk boundary are then usually both rejected.
	DropBoundaryLines bool
	// Decoder defaults to DecodeUTF8.
	Decoder Decoder
}

// Outcome describes one scanned chunk.
type Outcome struct {
	// Added is the number of entries appended to the page.
	Added int
	// Consumed is the number of chunk bytes up to the last line boundary
	// inspected, line feeds and trailing fill included.
	Consumed int64
	// Exhausted is false when the page filled while complete lines remained.
	Exhausted bool
	Filtered  int
	Rejected  int
}

// ChunkScanner splits chunks into lines and feeds them to the entry parser.
type ChunkScanner struct {
	parser            *parser.Parser
	pageSize          int
	dropBoundaryLines bool
	decode            Decoder
}

// NewChunkScanner creates a ChunkScanner using p for entry parsing.
func NewChunkScanner(p *parser.Parser, opts Options) *ChunkScanner {
	decode := opts.Decoder
	if decode == nil {
		decode = DecodeUTF8
	}
	return &ChunkScanner{
		parser:            p,
		pageSize:          opts.PageSize,
		dropBoundaryLines: opts.DropBoundaryLines,
		decode:            decode,
	}
}

// Scan appends the entries of chunk that match page.Filter to page.Entries
// until the page holds PageSize entries. atEOF marks the last chunk of the
// file, whose unterminated tail is a complete line.
func (s *ChunkScanner) Scan(chunk []byte, atEOF bool, page *model.Page) (Outcome, error) {
	var out Outcome

	trimmed := bytes.TrimRight(chunk, "\x00")
	padding := int64(len(chunk) - len(trimmed))

	text, err := s.decode(trimmed)
	if err != nil {
		return out, err
	}

	if len(page.Entries) >= s.pageSize {
		page.Entries = page.Entries[:0]
	}

	keepTail := !atEOF && !s.dropBoundaryLines
	pos := 0
	for pos < len(text) && len(page.Entries) < s.pageSize {
		var line string
		var size int
		if nl := strings.IndexByte(text[pos:], '\n'); nl >= 0 {
			line, size = text[pos:pos+nl], nl+1
		} else if keepTail {
			if pos == 0 {
				// No line feed in the whole chunk: skip it as one overlong line.
				out.Rejected++
				out.Consumed = int64(len(chunk))
				out.Exhausted = true
				return out, nil
			}
			break
		} else {
			line, size = text[pos:], len(text)-pos
		}

		entry, status := s.parser.ParseLine(line, page.Filter)
		switch status {
		case parser.Accepted:
			entry.Content = strings.Clone(entry.Content)
			page.Entries = append(page.Entries, entry)
			out.Added++
		case parser.Filtered:
			out.Filtered++
		default:
			out.Rejected++
		}
		out.Consumed += int64(size)
		pos += size
	}

	rest := text[pos:]
	switch {
	case rest == "":
		out.Exhausted = true
		out.Consumed += padding
	case keepTail && strings.IndexByte(rest, '\n') < 0:
		out.Exhausted = true
	}

	return out, nil
}
