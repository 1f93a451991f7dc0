// Package deps probes the host for the native web runtime each platform
// engine needs.
package deps

import (
	"context"
	"runtime"

	"github.com/bnema/nativeview/internal/logging"
)

const (
	defaultMinGTK4Version      = "4.12"
	defaultMinWebKitGTKVersion = "2.42"
	defaultMinGLibVersion      = "2.76"
)

// Source names where a check looked.
type Source string

const (
	SourcePkgConfig Source = "pkg-config"
	SourceRegistry  Source = "registry"
	SourceSocket    Source = "socket"
	SourceSystem    Source = "system"
)

// Status is the result of one check.
type Status struct {
	Name   string
	Target string
	Source Source

	Installed bool
	Version   string

	RequiredVersion string
	OK              bool

	Error string
}

// Report is the result of all checks for one platform.
type Report struct {
	Platform string
	Prefix   string
	OK       bool
	Checks   []Status
}

// Input selects the platform and minimum versions. Empty fields use the
// running OS and the defaults.
type Input struct {
	GOOS   string
	Prefix string

	MinGTK4Version      string
	MinWebKitGTKVersion string
	MinGLibVersion      string
}

// Checker runs the runtime checks.
type Checker struct {
	probe    VersionProbe
	webview2 func() (string, error)
	display  func() (string, error)
}

// Option configures a Checker.
type Option func(*Checker)

func WithVersionProbe(p VersionProbe) Option {
	return func(c *Checker) { c.probe = p }
}

func WithWebView2Probe(fn func() (string, error)) Option {
	return func(c *Checker) { c.webview2 = fn }
}

func WithDisplayProbe(fn func() (string, error)) Option {
	return func(c *Checker) { c.display = fn }
}

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		probe:    NewPkgConfigProbe(),
		webview2: WebView2Version,
		display:  DisplaySocket,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the checks for in.GOOS.
func (c *Checker) Run(ctx context.Context, in Input) Report {
	log := logging.Component(ctx, "runtime-check")

	goos := in.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	var checks []Status
	switch goos {
	case "linux":
		checks = c.linuxChecks(ctx, in)
	case "windows":
		checks = []Status{c.webView2Check()}
	case "darwin":
		checks = []Status{{
			Name:      "WebKit.framework",
			Target:    "WKWebView",
			Source:    SourceSystem,
			Installed: true,
			Version:   "bundled with macOS",
			OK:        true,
		}}
	default:
		checks = []Status{{
			Name:   "native web engine",
			Target: goos,
			Source: SourceSystem,
			Error:  "no native engine for " + goos + "; only the headless engine is available",
		}}
	}

	report := Report{Platform: goos, Prefix: in.Prefix, OK: true, Checks: checks}
	for _, s := range checks {
		if !s.OK {
			report.OK = false
		}
	}

	log.Debug().Str("platform", goos).Bool("ok", report.OK).Msg("runtime dependency check complete")
	return report
}

func (c *Checker) linuxChecks(ctx context.Context, in Input) []Status {
	minGTK := orDefault(in.MinGTK4Version, defaultMinGTK4Version)
	minWebKit := orDefault(in.MinWebKitGTKVersion, defaultMinWebKitGTKVersion)
	minGLib := orDefault(in.MinGLibVersion, defaultMinGLibVersion)

	checks := []Status{
		{Name: "GTK4", Target: "gtk4", RequiredVersion: minGTK},
		{Name: "WebKitGTK 6.0", Target: "webkitgtk-6.0", RequiredVersion: minWebKit},
		{Name: "GLib", Target: "glib-2.0", RequiredVersion: minGLib},
	}
	for i := range checks {
		c.pkgConfigCheck(ctx, &checks[i], in.Prefix)
	}
	return append(checks, c.displayCheck())
}

func (c *Checker) pkgConfigCheck(ctx context.Context, s *Status, prefix string) {
	s.Source = SourcePkgConfig

	version, err := c.probe.ModVersion(ctx, s.Target, prefix)
	if err != nil {
		s.Error = err.Error()
		return
	}
	s.Installed = true
	s.Version = version

	cmp, ok := compareVersion(s.Version, s.RequiredVersion)
	if !ok {
		s.Error = "could not parse version"
		return
	}
	s.OK = cmp >= 0
}

func (c *Checker) displayCheck() Status {
	s := Status{Name: "Display", Target: "WAYLAND_DISPLAY / DISPLAY", Source: SourceSocket}
	path, err := c.display()
	if err != nil {
		s.Error = err.Error()
		return s
	}
	s.Installed, s.OK = true, true
	s.Target = path
	return s
}

func (c *Checker) webView2Check() Status {
	s := Status{Name: "WebView2 Runtime", Target: webView2ClientKeyName, Source: SourceRegistry}
	version, err := c.webview2()
	if err != nil {
		s.Error = err.Error()
		return s
	}
	s.Installed, s.OK = true, true
	s.Version = version
	return s
}

// webView2ClientKeyName is shown in reports; the probe reads several roots.
const webView2ClientKeyName = `EdgeUpdate\Clients\{F3017226-FE2A-4295-8BDF-00C3A9A7E4C5}`

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
