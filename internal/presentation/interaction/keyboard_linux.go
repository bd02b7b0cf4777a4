//go:build linux

package interaction

import "golang.org/x/sys/unix"

// termios ioctl requests differ between platforms.
const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETS
)
