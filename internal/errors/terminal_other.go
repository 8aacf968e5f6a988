//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !windows

package errors

import "os"

// IsTerminal 没有 termios 时按字符设备判断
func IsTerminal(fd uintptr) bool {
	info, err := os.NewFile(fd, "").Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
