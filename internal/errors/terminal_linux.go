//go:build linux

package errors

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TCGETS
