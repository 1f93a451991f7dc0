//go:build darwin && cgo

package webview

/*
#include "engine_darwin.h"
#include <stdlib.h>
*/
import "C"

import "unsafe"

func platformAlert(title, message string) {
	ct := C.CString(title)
	defer C.free(unsafe.Pointer(ct))
	cm := C.CString(message)
	defer C.free(unsafe.Pointer(cm))
	C.nv_alert(ct, cm)
}
