// Package e2e provides helpers for tests that exercise terminal output.
package e2e

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/creack/pty"
	"github.com/penwyp/go-log-pager/internal/util"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Frames splits interactive output into the screens drawn after each clear,
// with escape codes removed. Output before the first clear is dropped.
func Frames(output string) []string {
	parts := strings.Split(output, util.ClearScreen+util.MoveCursorHome)
	if len(parts) < 2 {
		return nil
	}
	frames := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		frames = append(frames, StripANSI(p))
	}
	return frames
}

// LastFrame returns the final screen of interactive output.
func LastFrame(output string) string {
	frames := Frames(output)
	if len(frames) == 0 {
		return ""
	}
	return frames[len(frames)-1]
}

// Terminal is a pseudo terminal pair for tests that need a real tty.
type Terminal struct {
	// TTY is the terminal side, usable as a program's stdin or stdout.
	TTY *os.File
	// PTY is the controlling side.
	PTY *os.File
}

// OpenTerminal opens a pseudo terminal of the given size. The test is skipped
// when the platform provides none. Both ends are closed on cleanup.
func OpenTerminal(tb testing.TB, rows, cols uint16) *Terminal {
	tb.Helper()

	ptmx, tty, err := pty.Open()
	if err != nil {
		tb.Skipf("pseudo terminal unavailable: %v", err)
	}
	tb.Cleanup(func() {
		_ = tty.Close()
		_ = ptmx.Close()
	})

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		tb.Fatalf("failed to set terminal size: %v", err)
	}
	return &Terminal{TTY: tty, PTY: ptmx}
}
