package webview

import "unsafe"

// nativePointer converts a handle held as an integer by a binding into a
// pointer without tripping the uintptr conversion check.
func nativePointer(p uintptr) unsafe.Pointer {
	if p == 0 {
		return nil
	}
	return *(*unsafe.Pointer)(unsafe.Pointer(&p))
}
