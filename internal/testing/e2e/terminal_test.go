package e2e

import (
	"testing"

	"github.com/penwyp/go-log-pager/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func TestStripANSI(t *testing.T) {
	in := util.ColorBold + "Hello" + util.ColorReset + " " + util.HideCursor + "world" + util.ShowCursor

	assert.Equal(t, "Hello world", StripANSI(in))
	assert.Equal(t, "plain", StripANSI("plain"))
}

func TestFrames(t *testing.T) {
	cls := util.ClearScreen + util.MoveCursorHome
	out := "ignored" + cls + "first " + util.ColorYellow + "page" + util.ColorReset + cls + "second"

	frames := Frames(out)

	require.Len(t, frames, 2)
	assert.Equal(t, "first page", frames[0])
	assert.Equal(t, "second", frames[1])
	assert.Equal(t, "second", LastFrame(out))
	assert.Empty(t, LastFrame("no clear at all"))
}

func TestOpenTerminal(t *testing.T) {
	terminal := OpenTerminal(t, 30, 120)

	assert.True(t, term.IsTerminal(int(terminal.TTY.Fd())))
	width, height, err := term.GetSize(int(terminal.TTY.Fd()))
	require.NoError(t, err)
	assert.Equal(t, 120, width)
	assert.Equal(t, 30, height)
}
