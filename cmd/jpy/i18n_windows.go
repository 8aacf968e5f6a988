//go:build windows

package main

import (
	"syscall"
	"unsafe"
)

var (
	kernel32                     = syscall.NewLazyDLL("kernel32.dll")
	procGetUserDefaultUILanguage = kernel32.NewProc("GetUserDefaultUILanguage")
	procGetUserDefaultLocaleName = kernel32.NewProc("GetUserDefaultLocaleName")
)

// detectWindowsChinese 使用 Windows API 检测是否为中文系统
func detectWindowsChinese() bool {
	// 返回值是 LANGID，低 10 位是主语言 ID，中文为 0x04
	ret, _, _ := procGetUserDefaultUILanguage.Call()
	langID := uint16(ret)
	return langID&0x3FF == 0x04
}

// getWindowsLocale 获取 Windows 区域设置名称
func getWindowsLocale() string {
	buf := make([]uint16, 85) // LOCALE_NAME_MAX_LENGTH
	ret, _, _ := procGetUserDefaultLocaleName.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if ret == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf)
}
