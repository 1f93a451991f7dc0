package webview

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterClassExW   = user32.NewProc("RegisterClassExW")
	procCreateWindowExW    = user32.NewProc("CreateWindowExW")
	procDestroyWindow      = user32.NewProc("DestroyWindow")
	procDefWindowProcW     = user32.NewProc("DefWindowProcW")
	procShowWindow         = user32.NewProc("ShowWindow")
	procUpdateWindow       = user32.NewProc("UpdateWindow")
	procSetWindowTextW     = user32.NewProc("SetWindowTextW")
	procSetWindowPos       = user32.NewProc("SetWindowPos")
	procGetWindowLongW     = user32.NewProc("GetWindowLongW")
	procSetWindowLongW     = user32.NewProc("SetWindowLongW")
	procAdjustWindowRect   = user32.NewProc("AdjustWindowRect")
	procGetSystemMetrics   = user32.NewProc("GetSystemMetrics")
	procLoadCursorW        = user32.NewProc("LoadCursorW")
	procLoadImageW         = user32.NewProc("LoadImageW")
	procDestroyIcon        = user32.NewProc("DestroyIcon")
	procSendMessageW       = user32.NewProc("SendMessageW")
	procPostMessageW       = user32.NewProc("PostMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procTranslateMessage   = user32.NewProc("TranslateMessage")
	procDispatchMessageW   = user32.NewProc("DispatchMessageW")
)

const (
	wmDestroy       = 0x0002
	wmSize          = 0x0005
	wmClose         = 0x0010
	wmQuit          = 0x0012
	wmGetMinMaxInfo = 0x0024
	wmSetIcon       = 0x0080
	wmApp           = 0x8000

	// wmDispatch asks the window procedure to drain the dispatch queue.
	wmDispatch = wmApp + 1

	wsOverlappedWindow = 0x00CF0000
	wsThickFrame       = 0x00040000
	wsMaximizeBox      = 0x00010000

	cwUseDefault = 0x80000000

	swHide = 0
	swShow = 5

	swpNoSize       = 0x0001
	swpNoMove       = 0x0002
	swpNoZOrder     = 0x0004
	swpNoActivate   = 0x0010
	swpFrameChanged = 0x0020

	gwlStyle = -16

	smCXScreen = 0
	smCYScreen = 1

	idcArrow    = 32512
	colorWindow = 5

	imageIcon      = 1
	lrLoadFromFile = 0x0010
	lrDefaultSize  = 0x0040

	iconSmall = 0
	iconBig   = 1
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type point struct {
	X, Y int32
}

type winMsg struct {
	Hwnd     windows.HWND
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       point
	LPrivate uint32
}

type minMaxInfo struct {
	Reserved     point
	MaxSize      point
	MaxPosition  point
	MinTrackSize point
	MaxTrackSize point
}

func showWindow(hwnd windows.HWND, cmd int) {
	_, _, _ = procShowWindow.Call(uintptr(hwnd), uintptr(cmd))
}

func setWindowText(hwnd windows.HWND, text string) {
	p, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return
	}
	_, _, _ = procSetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(p)))
}

func systemMetric(index int) int {
	r, _, _ := procGetSystemMetrics.Call(uintptr(index))
	return int(int32(r))
}

func windowStyle(hwnd windows.HWND) uint32 {
	r, _, _ := procGetWindowLongW.Call(uintptr(hwnd), uintptr(gwlStyle&0xFFFFFFFF))
	return uint32(r)
}

func setWindowStyle(hwnd windows.HWND, style uint32) {
	_, _, _ = procSetWindowLongW.Call(uintptr(hwnd), uintptr(gwlStyle&0xFFFFFFFF), uintptr(style))
}

// outerSize converts a client size to the window size for style.
func outerSize(width, height int, style uint32) (int, int) {
	r := windows.Rect{Right: int32(width), Bottom: int32(height)}
	_, _, _ = procAdjustWindowRect.Call(uintptr(unsafe.Pointer(&r)), uintptr(style), 0)
	return int(r.Right - r.Left), int(r.Bottom - r.Top)
}

func defWindowProc(hwnd, msg, wparam, lparam uintptr) uintptr {
	r, _, _ := procDefWindowProcW.Call(hwnd, msg, wparam, lparam)
	return r
}
