package webview

import (
	"errors"

	"github.com/bnema/nativeview/internal/lifecycle"
)

var (
	// ErrTerminated is returned by every operation after Terminate.
	ErrTerminated = lifecycle.ErrTerminated
	// ErrNotUIThread is returned by UI-only operations called off the UI thread.
	ErrNotUIThread = errors.New("webview: not called on the UI thread")
	// ErrUnsupportedPlatform is returned by New where no native engine exists.
	ErrUnsupportedPlatform = errors.New("webview: unsupported platform")
	// ErrEngineUnavailable reports that the native web component could not be created.
	ErrEngineUnavailable = errors.New("webview: native web engine unavailable")
	// ErrInvalidIcon is returned by SetIcon for empty image data.
	ErrInvalidIcon = errors.New("webview: icon data is empty")
	// ErrEmptyURL is returned by Navigate for an empty URL.
	ErrEmptyURL = errors.New("webview: url cannot be empty")
)
