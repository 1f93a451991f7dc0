package styles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/nativeview/internal/cli/styles"
	"github.com/bnema/nativeview/internal/deps"
)

func TestDoctorRenderer(t *testing.T) {
	r := styles.NewDoctorRenderer(styles.NewTheme())

	out := r.Render(deps.Report{
		Platform: "linux",
		Prefix:   "/opt/webkit",
		OK:       false,
		Checks: []deps.Status{
			{Name: "GTK4", Source: deps.SourcePkgConfig, Installed: true, Version: "4.14.2", RequiredVersion: "4.12", OK: true},
			{Name: "WebKitGTK 6.0", Source: deps.SourcePkgConfig, Installed: true, Version: "2.40.0", RequiredVersion: "2.42"},
			{Name: "Display", Source: deps.SourceSocket, Error: "no display socket reachable"},
		},
	})

	assert.Contains(t, out, "Needs attention")
	assert.Contains(t, out, "linux")
	assert.Contains(t, out, "/opt/webkit")
	assert.Contains(t, out, "4.14.2 (>= 4.12)")
	assert.Contains(t, out, "have 2.40.0, need >= 2.42")
	assert.Contains(t, out, "Missing")
	assert.Contains(t, out, "no display socket reachable")
}

func TestDoctorRendererAllOK(t *testing.T) {
	r := styles.NewDoctorRenderer(styles.NewTheme())
	out := r.Render(deps.Report{
		Platform: "darwin",
		OK:       true,
		Checks:   []deps.Status{{Name: "WebKit.framework", Source: deps.SourceSystem, Installed: true, Version: "bundled with macOS", OK: true}},
	})
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "bundled with macOS")
	assert.NotContains(t, out, "Needs attention")
}

func TestConfigRendererPath(t *testing.T) {
	r := styles.NewConfigRenderer(styles.NewTheme())
	assert.Contains(t, r.RenderPath("/tmp/nativeview/config.toml", true), "exists")
	assert.Contains(t, r.RenderPath("/tmp/nativeview/config.toml", false), "not created yet")
}
