//go:build linux || darwin || freebsd || netbsd || openbsd

package errors

import "golang.org/x/sys/unix"

// IsTerminal 文件描述符是否连接到终端（能读到 termios 即为终端）
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), ioctlReadTermios)
	return err == nil
}
