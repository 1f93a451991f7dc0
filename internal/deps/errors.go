package deps

import (
	"errors"
	"fmt"
)

// PkgConfigErrorKind describes the category of a pkg-config failure.
type PkgConfigErrorKind string

const (
	PkgConfigErrorKindCommandMissing PkgConfigErrorKind = "command_missing"
	PkgConfigErrorKindPackageMissing PkgConfigErrorKind = "package_missing"
)

var (
	// ErrPkgConfigMissing indicates pkg-config is not available on the host.
	ErrPkgConfigMissing = errors.New("pkg-config missing")
	// ErrPkgConfigPackageMissing indicates the requested .pc package was not found.
	ErrPkgConfigPackageMissing = errors.New("pkg-config package missing")
	// ErrWebView2Missing indicates no WebView2 runtime is registered.
	ErrWebView2Missing = errors.New("WebView2 runtime not installed")
	// ErrNoDisplay indicates no Wayland or X11 display socket is reachable.
	ErrNoDisplay = errors.New("no display socket reachable")
	// ErrNotSupported is returned by probes that do not apply to the host OS.
	ErrNotSupported = errors.New("probe not supported on this platform")
)

// PkgConfigError wraps an error returned by pkg-config probing.
type PkgConfigError struct {
	Kind    PkgConfigErrorKind
	Package string
	Output  string
	Err     error
}

func (e *PkgConfigError) Error() string {
	if e == nil {
		return "pkg-config error"
	}
	msg := fmt.Sprintf("pkg-config (%s): %s", e.Kind, e.Package)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PkgConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
