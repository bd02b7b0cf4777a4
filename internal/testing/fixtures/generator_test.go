package fixtures

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/penwyp/go-log-pager/internal/data/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogGeneratorIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer

	_, err := NewLogGenerator(GeneratorOptions{Seed: 42}).Write(&a, 200)
	require.NoError(t, err)
	_, err = NewLogGenerator(GeneratorOptions{Seed: 42}).Write(&b, 200)
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())

	var c bytes.Buffer
	_, err = NewLogGenerator(GeneratorOptions{Seed: 43}).Write(&c, 200)
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), c.String())
}

func TestLogGeneratorOutputParses(t *testing.T) {
	var buf bytes.Buffer
	written, err := NewLogGenerator(GeneratorOptions{Seed: 1}).Write(&buf, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), written)

	p := parser.NewParser(nil)
	var previous time.Time
	lines := 0
	scanner := bufio.NewScanner(&buf)
	scanner.Buffer(make([]byte, 4096), 4096)
	for scanner.Scan() {
		entry, status := p.ParseLine(scanner.Text(), model.CategoryAll)
		require.Equal(t, parser.Accepted, status, scanner.Text())
		assert.True(t, entry.Timestamp.After(previous))
		previous = entry.Timestamp
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 500, lines)
}

func TestLogGeneratorRestrictsCategories(t *testing.T) {
	g := NewLogGenerator(GeneratorOptions{Seed: 7, Categories: model.SetOf(model.CategoryE)})

	for i := 0; i < 50; i++ {
		assert.Equal(t, model.CategoryE, g.Next().Category)
	}
}

func TestLogGeneratorWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	written, err := NewLogGenerator(GeneratorOptions{Seed: 3, Contents: []string{"fixed"}}).WriteFile(path, 10)

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), written)
	assert.Equal(t, 10, strings.Count(string(data), "\n"))
	assert.Equal(t, 10, strings.Count(string(data), " fixed\n"))
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	ts := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)

	require.NoError(t, WriteLines(&buf,
		model.LogEntry{Category: model.CategoryI, Timestamp: ts, Content: "one"},
		model.LogEntry{Category: model.CategoryE, Timestamp: ts, Content: ""},
	))

	assert.Equal(t, "I 2024-01-15T08:30:00.000Z one\nE 2024-01-15T08:30:00.000Z \n", buf.String())
}
