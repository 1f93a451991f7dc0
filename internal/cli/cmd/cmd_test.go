package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nativeview/internal/cli"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configPathPlain = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(t *testing.T, c *cobra.Command) {
	t.Helper()
	t.Cleanup(func() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
}

func TestConfigSchemaCommand(t *testing.T) {
	out, err := execute(t, "--config-dir", t.TempDir(), "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"window"`)
	assert.Contains(t, out, `"hide_on_close"`)
}

func TestConfigPathCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--config-dir", dir, "config", "path", "--plain")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), strings.TrimSpace(out))
}

func TestVersionCommand(t *testing.T) {
	SetBuildInfo(BuildInfo{Version: "v1.2.3", Commit: "abc123", BuildDate: "2026-01-01"})
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nativeview v1.2.3 (commit abc123")
}

func TestRootRejectsUnknownLogFormat(t *testing.T) {
	_, err := execute(t, "--config-dir", t.TempDir(), "--log-format", "xml", "config", "path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize app")
}

func TestOpenRequiresTarget(t *testing.T) {
	_, err := execute(t, "--config-dir", t.TempDir(), "open")
	require.Error(t, err)
}

func TestOpenOptionsFlagsOverrideConfig(t *testing.T) {
	resetFlags(t, openCmd)
	app, err := cli.NewApp(cli.Options{ConfigDir: t.TempDir(), Output: io.Discard})
	require.NoError(t, err)

	require.NoError(t, openCmd.ParseFlags([]string{
		"--width", "300", "--hint", "fixed", "--watch", "--debounce", "1s", "--headless",
	}))
	opts := openOptions(openCmd, app, "index.html")

	assert.Equal(t, "index.html", opts.Target)
	assert.Equal(t, 300, opts.Window.Width)
	assert.Equal(t, app.Config.Window.Height, opts.Window.Height)
	assert.Equal(t, "fixed", opts.Window.Hint)
	assert.Equal(t, app.Config.Window.Title, opts.Window.Title)
	assert.True(t, opts.Watch)
	assert.True(t, opts.Headless)
	assert.Equal(t, time.Second, opts.Debounce)
	assert.False(t, opts.FollowConfig)
}

func TestOpenOptionsDefaultToConfig(t *testing.T) {
	resetFlags(t, openCmd)
	app, err := cli.NewApp(cli.Options{ConfigDir: t.TempDir(), Output: io.Discard})
	require.NoError(t, err)

	require.NoError(t, openCmd.ParseFlags([]string{"--debug"}))
	opts := openOptions(openCmd, app, "https://example.com")

	assert.Equal(t, app.Config.Window, opts.Window)
	assert.True(t, opts.Debug)
	assert.Equal(t, app.Config.Watch.Debounce, opts.Debounce)
	assert.True(t, opts.FollowConfig)
}
