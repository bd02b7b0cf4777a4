package scanner

import (
	"errors"
	"strings"
	"testing"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/data/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScanner(pageSize int) *ChunkScanner {
	return NewChunkScanner(parser.NewParser(nil), Options{PageSize: pageSize})
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestScanWellFormedChunk(t *testing.T) {
	s := newScanner(100)
	page := model.NewPage(model.CategoryAll)
	chunk := lines(
		"I 2024-01-15T08:30:00Z first",
		"E 2024-01-15T08:30:01Z second",
		"W 2024-01-15T08:30:02Z third with ünïcode",
	)

	out, err := s.Scan([]byte(chunk), false, page)

	require.NoError(t, err)
	assert.Equal(t, 3, out.Added)
	assert.Equal(t, int64(len(chunk)), out.Consumed)
	assert.True(t, out.Exhausted)
	require.Len(t, page.Entries, 3)
	assert.Equal(t, "third with ünïcode", page.Entries[2].Content)
}

func TestScanCountsFilteredAndRejectedBytes(t *testing.T) {
	s := newScanner(100)
	page := model.NewPage(model.SetOf(model.CategoryI))
	chunk := lines(
		"I 2024-01-15T08:30:00Z kept",
		"E 2024-01-15T08:30:01Z filtered",
		"garbage line",
		"",
		"I 2024-01-15T08:30:02Z kept too",
	)

	out, err := s.Scan([]byte(chunk), true, page)

	require.NoError(t, err)
	assert.Equal(t, 2, out.Added)
	assert.Equal(t, 1, out.Filtered)
	assert.Equal(t, 2, out.Rejected)
	assert.Equal(t, int64(len(chunk)), out.Consumed)
}

func TestScanStopsWhenPageFills(t *testing.T) {
	s := newScanner(2)
	page := model.NewPage(model.CategoryAll)
	first := "I 2024-01-15T08:30:00Z one\n"
	second := "I 2024-01-15T08:30:01Z two\n"
	chunk := first + second + "I 2024-01-15T08:30:02Z three\n"

	out, err := s.Scan([]byte(chunk), true, page)

	require.NoError(t, err)
	assert.Equal(t, 2, out.Added)
	assert.Equal(t, int64(len(first)+len(second)), out.Consumed)
	assert.False(t, out.Exhausted)
}

func TestScanClearsFullPage(t *testing.T) {
	s := newScanner(2)
	page := model.NewPage(model.CategoryAll)
	page.Entries = []model.LogEntry{{Category: model.CategoryE}, {Category: model.CategoryE}}

	out, err := s.Scan([]byte("I 2024-01-15T08:30:00Z fresh\n"), true, page)

	require.NoError(t, err)
	assert.Equal(t, 1, out.Added)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "fresh", page.Entries[0].Content)
}

func TestScanLeavesUnterminatedTailForNextChunk(t *testing.T) {
	s := newScanner(100)
	page := model.NewPage(model.CategoryAll)
	complete := "I 2024-01-15T08:30:00Z complete\n"
	chunk := complete + "E 2024-01-15T08:3"

	out, err := s.Scan([]byte(chunk), false, page)

	require.NoError(t, err)
	assert.Equal(t, 1, out.Added)
	assert.Equal(t, int64(len(complete)), out.Consumed)
	assert.True(t, out.Exhausted)
}

func TestScanFinalChunkTailIsALine(t *testing.T) {
	s := newScanner(100)
	page := model.NewPage(model.CategoryAll)
	chunk := "I 2024-01-15T08:30:00Z one\nE 2024-01-15T08:30:01Z no newline at eof"

	out, err := s.Scan([]byte(chunk), true, page)

	require.NoError(t, err)
	assert.Equal(t, 2, out.Added)
	assert.Equal(t, int64(len(chunk)), out.Consumed)
}

func TestScanDropBoundaryLines(t *testing.T) {
	s := NewChunkScanner(parser.NewParser(nil), Options{PageSize: 100, DropBoundaryLines: true})
	page := model.NewPage(model.CategoryAll)
	chunk := "I 2024-01-15T08:30:00Z complete\nE 2024-01-15T08:3"

	out, err := s.Scan([]byte(chunk), false, page)

	require.NoError(t, err)
	assert.Equal(t, 1, out.Added)
	assert.Equal(t, 1, out.Rejected, "the cut line is evaluated on its own and dropped")
	assert.Equal(t, int64(len(chunk)), out.Consumed)
}

func TestScanOverlongLineIsSkippedWhole(t *testing.T) {
	s := newScanner(100)
	page := model.NewPage(model.CategoryAll)
	chunk := []byte(strings.Repeat("x", 64))

	out, err := s.Scan(chunk, false, page)

	require.NoError(t, err)
	assert.Equal(t, 0, out.Added)
	assert.Equal(t, int64(64), out.Consumed)
	assert.True(t, out.Exhausted)
}

func TestScanTrimsTrailingFill(t *testing.T) {
	s := newScanner(100)
	page := model.NewPage(model.CategoryAll)
	text := "I 2024-01-15T08:30:00Z padded\n"
	chunk := append([]byte(text), make([]byte, 16)...)

	out, err := s.Scan(chunk, true, page)

	require.NoError(t, err)
	assert.Equal(t, 1, out.Added)
	assert.Equal(t, int64(len(chunk)), out.Consumed, "fill after the last line counts as consumed")
}

func TestScanDecodeFault(t *testing.T) {
	s := newScanner(100)
	page := model.NewPage(model.CategoryAll)
	// "é" is 0xC3 0xA9; starting at 0xA9 lands inside the character.
	chunk := []byte("é\nI 2024-01-15T08:30:00Z after\n")[1:]

	out, err := s.Scan(chunk, false, page)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecodeFault))
	assert.Equal(t, 0, out.Added)
	assert.Empty(t, page.Entries)
}

func TestScanCustomDecoder(t *testing.T) {
	calls := 0
	s := NewChunkScanner(parser.NewParser(nil), Options{
		PageSize: 10,
		Decoder: func(chunk []byte) (string, error) {
			calls++
			return strings.ToUpper(string(chunk)), nil
		},
	})
	page := model.NewPage(model.CategoryAll)

	out, err := s.Scan([]byte("i 2024-01-15t08:30:00z shout\n"), true, page)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, out.Added)
	assert.Equal(t, "SHOUT", page.Entries[0].Content)
}

func TestDecodeUTF8(t *testing.T) {
	text, err := DecodeUTF8([]byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, "plain", text)

	_, err = DecodeUTF8([]byte{0x80, 'a'})
	assert.ErrorIs(t, err, ErrDecodeFault)

	text, err = DecodeUTF8(nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}
