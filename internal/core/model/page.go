package model

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Direction selects which neighbour of the current page a load returns.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "prev"
	}
	return "next"
}

// ParseDirection accepts next/forward and prev/previous/backward.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next", "forward", "":
		return Forward, nil
	case "prev", "previous", "backward":
		return Backward, nil
	default:
		return Forward, fmt.Errorf("invalid direction %q (valid: next, prev)", s)
	}
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Checkpoint marks one chunk-read boundary. FullyConsumed is false when the
// page filled before the chunk's text was used up.
type Checkpoint struct {
	Offset        int64 `json:"offset"`
	FullyConsumed bool  `json:"fully_consumed"`
}

// Page is the caller-owned paging state: the entries of the current page and
// the checkpoint stacks needed to move forward or backward from it.
//
// StartOffsets and EndOffsets are parallel stacks; after every completed load
// each level holds one page, the top being the page in Entries.
type Page struct {
	Direction           Direction    `json:"direction"`
	Filter              CategorySet  `json:"filter"`
	RecordedFilter      CategorySet  `json:"recorded_filter"`
	Entries             []LogEntry   `json:"entries"`
	StartOffsets        []Checkpoint `json:"start_offsets"`
	EndOffsets          []Checkpoint `json:"end_offsets"`
	PreviousStartOffset int64        `json:"previous_start_offset"`
	TotalSize           int64        `json:"total_size"`
}

// NewPage returns an empty forward page for the given filter.
func NewPage(filter CategorySet) *Page {
	return &Page{
		Direction:      Forward,
		Filter:         filter,
		RecordedFilter: filter,
	}
}

// Depth is the number of checkpoint pairs on the stacks.
func (p *Page) Depth() int {
	return len(p.StartOffsets)
}

// IsFirstPage reports whether the current page starts at byte 0.
func (p *Page) IsFirstPage() bool {
	return len(p.StartOffsets) > 0 && p.StartOffsets[len(p.StartOffsets)-1].Offset == 0
}

// IsFinalPage reports whether the current page ends at the end of the file.
func (p *Page) IsFinalPage() bool {
	return len(p.EndOffsets) > 0 && p.EndOffsets[len(p.EndOffsets)-1].Offset == p.TotalSize
}

// CurrentStart returns the start offset of the current page, or 0.
func (p *Page) CurrentStart() int64 {
	if len(p.StartOffsets) == 0 {
		return 0
	}
	return p.StartOffsets[len(p.StartOffsets)-1].Offset
}

// CurrentEnd returns the end offset of the current page, or 0.
func (p *Page) CurrentEnd() int64 {
	if len(p.EndOffsets) == 0 {
		return 0
	}
	return p.EndOffsets[len(p.EndOffsets)-1].Offset
}

// Top returns the most recent checkpoint pair.
func (p *Page) Top() (start, end Checkpoint, ok bool) {
	if len(p.StartOffsets) == 0 || len(p.EndOffsets) == 0 {
		return Checkpoint{}, Checkpoint{}, false
	}
	return p.StartOffsets[len(p.StartOffsets)-1], p.EndOffsets[len(p.EndOffsets)-1], true
}

// Push records one chunk read.
func (p *Page) Push(start, end int64, fullyConsumed bool) {
	p.StartOffsets = append(p.StartOffsets, Checkpoint{Offset: start, FullyConsumed: fullyConsumed})
	p.EndOffsets = append(p.EndOffsets, Checkpoint{Offset: end, FullyConsumed: fullyConsumed})
}

// Pop removes the most recent checkpoint pair.
func (p *Page) Pop() (start, end Checkpoint, ok bool) {
	start, end, ok = p.Top()
	if !ok {
		return
	}
	p.StartOffsets = p.StartOffsets[:len(p.StartOffsets)-1]
	p.EndOffsets = p.EndOffsets[:len(p.EndOffsets)-1]
	return
}

// Truncate drops every checkpoint pair above depth.
func (p *Page) Truncate(depth int) {
	if depth < 0 {
		depth = 0
	}
	if depth < len(p.StartOffsets) {
		p.StartOffsets = p.StartOffsets[:depth]
	}
	if depth < len(p.EndOffsets) {
		p.EndOffsets = p.EndOffsets[:depth]
	}
}

// Fold collapses the pairs above depth into one pair spanning from the first
// start to the last end, keeping the last pair's consumption flag.
func (p *Page) Fold(depth int) {
	if depth < 0 || depth >= len(p.StartOffsets)-1 {
		return
	}
	first := p.StartOffsets[depth]
	last := p.EndOffsets[len(p.EndOffsets)-1]
	p.Truncate(depth)
	p.Push(first.Offset, last.Offset, last.FullyConsumed)
}

// Reset clears entries and checkpoints, keeping direction and filter.
func (p *Page) Reset() {
	p.Entries = nil
	p.StartOffsets = nil
	p.EndOffsets = nil
	p.PreviousStartOffset = 0
	p.RecordedFilter = p.Filter
}

// Clone returns a deep copy of p.
func (p *Page) Clone() *Page {
	c := *p
	c.Entries = append([]LogEntry(nil), p.Entries...)
	c.StartOffsets = append([]Checkpoint(nil), p.StartOffsets...)
	c.EndOffsets = append([]Checkpoint(nil), p.EndOffsets...)
	return &c
}

// String renders the page summary: offsets, size, boundary flags and entry count.
func (p *Page) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Start offset: %d\n", p.CurrentStart())
	fmt.Fprintf(&sb, "End offset:   %d\n", p.CurrentEnd())
	fmt.Fprintf(&sb, "Total size:   %d\n", p.TotalSize)
	fmt.Fprintf(&sb, "First page:   %t\n", p.IsFirstPage())
	fmt.Fprintf(&sb, "Final page:   %t\n", p.IsFinalPage())
	fmt.Fprintf(&sb, "Entries:      %d\n", len(p.Entries))
	return sb.String()
}
