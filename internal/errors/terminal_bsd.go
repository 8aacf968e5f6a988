//go:build darwin || freebsd || netbsd || openbsd

package errors

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TIOCGETA
