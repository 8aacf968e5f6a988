//go:build windows

package errors

import "golang.org/x/sys/windows"

// IsTerminal 句柄是否为控制台
func IsTerminal(fd uintptr) bool {
	var mode uint32
	return windows.GetConsoleMode(windows.Handle(fd), &mode) == nil
}
