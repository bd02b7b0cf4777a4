package fixtures

import (
	"bufio"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/penwyp/go-log-pager/internal/core/model"
)

// SampleContents are the message bodies used by LogGenerator. The empty
// string and the long paragraph exercise empty content and lines that span
// chunk boundaries.
var SampleContents = []string{
	"Write a log item for test",
	"I'm not empty",
	"",
	"Pseudo-random numbers are chosen with equal probability from a finite set of numbers. The chosen numbers are not completely random because a mathematical algorithm is used to select them, but they are sufficiently random for practical purposes. The current implementation of the Random class is based on a modified version of Donald E. Knuth's subtractive random number generator algorithm. For more information, see D. E. Knuth. The Art of Computer Programming, Volume 2: Seminumerical Algorithms. Addison-Wesley, Reading, MA, third edition, 1997.",
	"Read something...",
	"Writing something....",
	"Something goes error!",
	"Something executed successfully",
	"There is nothing to log",
	"It's just a info record",
	"It's a warning!",
	"I'm executing a scripts command...",
	"I'm just waiting.....",
	"I expected the executing result of \"ABC\"",
}

// GeneratorOptions configures a LogGenerator. Zero values pick defaults.
type GeneratorOptions struct {
	Seed       uint64
	Start      time.Time
	Step       time.Duration
	Categories model.CategorySet
	Contents   []string
}

// LogGenerator produces random but reproducible log entries with
// increasing timestamps.
type LogGenerator struct {
	rng        *rand.Rand
	next       time.Time
	step       time.Duration
	categories []model.Category
	contents   []string
}

func NewLogGenerator(opts GeneratorOptions) *LogGenerator {
	if opts.Start.IsZero() {
		opts.Start = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	}
	if opts.Step <= 0 {
		opts.Step = 7 * time.Millisecond
	}
	if opts.Categories.IsEmpty() {
		opts.Categories = model.CategoryAll
	}
	if len(opts.Contents) == 0 {
		opts.Contents = SampleContents
	}

	return &LogGenerator{
		rng:        rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		next:       opts.Start,
		step:       opts.Step,
		categories: opts.Categories.Categories(),
		contents:   opts.Contents,
	}
}

// Next returns the next entry.
func (g *LogGenerator) Next() model.LogEntry {
	entry := model.LogEntry{
		Category:  g.categories[g.rng.IntN(len(g.categories))],
		Timestamp: g.next,
		Content:   g.contents[g.rng.IntN(len(g.contents))],
	}
	g.next = g.next.Add(g.step)
	return entry
}

// Write writes n entries, one per line, and returns the number of bytes written.
func (g *LogGenerator) Write(w io.Writer, n int) (int64, error) {
	bw := bufio.NewWriterSize(w, 64*1024)
	var written int64
	for i := 0; i < n; i++ {
		m, err := bw.WriteString(g.Next().String() + "\n")
		written += int64(m)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// WriteFile creates or truncates path and fills it with n entries.
func (g *LogGenerator) WriteFile(path string, n int) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	written, err := g.Write(f, n)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return written, err
}

// WriteLines writes the given entries in file format.
func WriteLines(w io.Writer, entries ...model.LogEntry) error {
	for _, e := range entries {
		if _, err := io.WriteString(w, e.String()+"\n"); err != nil {
			return err
		}
	}
	return nil
}
