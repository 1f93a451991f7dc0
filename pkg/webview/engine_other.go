//go:build !(linux && cgo) && !(darwin && cgo) && !windows

package webview

import (
	"context"
	"fmt"
	"runtime"
)

func newEngine(_ context.Context, _ Options) (WebView, error) {
	return nil, fmt.Errorf("%w: %s/%s without cgo; use NewHeadless", ErrUnsupportedPlatform, runtime.GOOS, runtime.GOARCH)
}
