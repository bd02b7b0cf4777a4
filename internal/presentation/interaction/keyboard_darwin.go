//go:build darwin

package interaction

import "golang.org/x/sys/unix"

// termios ioctl requests differ between platforms.
const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
)
