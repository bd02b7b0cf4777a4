package paging

import (
	"github.com/penwyp/go-log-pager/internal/core/model"
)

// seekOffset returns the offset the next load starts reading from. Backward
// moves pop checkpoints; forward moves leave the stacks untouched, so calling
// it twice on a forward page yields the same offset.
//
// Between loads the stacks hold page levels, not chunk reads: the per-chunk
// pairs pushed during a load are folded into one level when it completes.
// forwardOffset is also used between chunks inside a load, where the top is
// the last chunk read.
//
//	forward,  empty stack          -> 0
//	forward,  top fully consumed   -> top end
//	forward,  top stopped mid-chunk -> top end (the line boundary where the page filled)
//	backward, empty stack          -> 0
//	backward, one level            -> clear, 0
//	backward, two or more levels   -> pop two, start of the second popped
func (e *Engine) seekOffset(page *model.Page) int64 {
	if page.Direction == model.Backward {
		return e.backwardOffset(page)
	}
	return e.forwardOffset(page)
}

func (e *Engine) forwardOffset(page *model.Page) int64 {
	_, end, ok := page.Top()
	if !ok {
		return 0
	}
	return clampOffset(end.Offset, page.TotalSize)
}

func (e *Engine) backwardOffset(page *model.Page) int64 {
	if page.Depth() < 2 {
		page.Truncate(0)
		return 0
	}
	page.Pop()
	previous, _, _ := page.Pop()
	return clampOffset(previous.Offset, page.TotalSize)
}

// recoveryOffset is the retry position after the faults-th consecutive
// decode fault of a chunk first read at origin. Retries move one byte further
// past origin each time, so they never re-read text already checkpointed and
// a split character is skipped within utf8.UTFMax attempts.
func recoveryOffset(origin int64, faults int, size int64) int64 {
	return clampOffset(origin+int64(faults), size)
}

func clampOffset(offset, size int64) int64 {
	if offset < 0 {
		return 0
	}
	if offset > size {
		return size
	}
	return offset
}
