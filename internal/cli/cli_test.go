package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nativeview/internal/config"
	"github.com/bnema/nativeview/internal/logging"
	"github.com/bnema/nativeview/pkg/webview"
)

// lockedBuffer is a log sink shared by the loop and AfterFunc goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testContext(t *testing.T) (context.Context, *lockedBuffer) {
	t.Helper()
	out := &lockedBuffer{}
	logger := logging.New(logging.Config{Level: zerolog.DebugLevel, Format: "json", Output: out})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return logging.WithContext(ctx, logger), out
}

func htmlURL(page string) string {
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(page))
}

// headlessUntil returns a factory for headless views that calls stop after
// the page posts last.
func headlessUntil(last string, stop func(), seen func(string)) ViewFactory {
	return func(ctx context.Context, opts webview.Options, headless bool) (webview.WebView, error) {
		inner := opts.OnMessage
		opts.OnMessage = func(msg string) {
			inner(msg)
			if seen != nil {
				seen(msg)
			}
			if msg == last {
				stop()
			}
		}
		return webview.NewHeadless(ctx, opts)
	}
}

func TestResolveTarget(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(page, []byte("<p>hi</p>"), 0o644))
	pageURL, err := webview.FileURL(page)
	require.NoError(t, err)

	tests := []struct {
		name     string
		arg      string
		wantURL  string
		wantPath string
		wantErr  string
	}{
		{name: "https", arg: "https://example.com/a?b=c", wantURL: "https://example.com/a?b=c"},
		{name: "data url", arg: "data:text/html,hello", wantURL: "data:text/html,hello"},
		{name: "about", arg: "about:blank", wantURL: "about:blank"},
		{name: "file url", arg: pageURL, wantURL: pageURL, wantPath: page},
		{name: "local path", arg: page, wantURL: pageURL, wantPath: page},
		{name: "padded", arg: "  " + page + "\n", wantURL: pageURL, wantPath: page},
		{name: "missing file", arg: filepath.Join(dir, "nope.html"), wantErr: "use a full URL"},
		{name: "directory", arg: dir, wantErr: "is a directory"},
		{name: "empty", arg: " ", wantErr: "empty target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTarget(tt.arg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, got.URL)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}
}

func TestResolveTargetRelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte("x"), 0o644))
	t.Chdir(dir)

	got, err := ResolveTarget("page.html")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got.Path))
	assert.True(t, strings.HasPrefix(got.URL, "file://"))
	assert.True(t, strings.HasSuffix(got.URL, "/page.html"))
}

func TestWatchFileDebouncesReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	ctx, _ := testContext(t)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reloads := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, 50*time.Millisecond, func() { reloads <- struct{}{} })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	for i := range 3 {
		require.NoError(t, os.WriteFile(path, []byte("v"+string(rune('2'+i))), 0o644))
	}

	select {
	case <-reloads:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after the file changed")
	}

	// The burst coalesces into one reload.
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, reloads)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("WatchFile did not return after cancel")
	}
}

func TestWatchFileMissingDirectory(t *testing.T) {
	ctx, _ := testContext(t)
	err := WatchFile(ctx, filepath.Join(t.TempDir(), "gone", "index.html"), 0, func() {})
	require.Error(t, err)
}

func TestOpenEchoesMessagesBackToPage(t *testing.T) {
	ctx, out := testContext(t)
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	var got []string
	app := &App{}
	err := app.Open(ctx, OpenOptions{
		Target: htmlURL(`<script>
			window.addEventListener("nativeview:message", function (e) {
				if (e.detail === "ping") { window.external.invoke("pong"); }
			});
			window.external.invoke("ping");
		</script>`),
		Window:   config.WindowConfig{Width: 320, Height: 240, Hint: "fixed", Title: "echo"},
		Headless: true,
	}, headlessUntil("pong", stop, func(msg string) { got = append(got, msg) }))
	require.NoError(t, err)

	assert.Equal(t, []string{"ping", "pong"}, got)
	logs := out.String()
	assert.Contains(t, logs, `"message":"ping"`)
	assert.Contains(t, logs, `"message":"pong"`)
	assert.Contains(t, logs, `"component":"cli"`)
}

func TestOpenReturnsWhenMessageHandlerTerminates(t *testing.T) {
	ctx, out := testContext(t)

	var view webview.WebView
	factory := func(ctx context.Context, opts webview.Options, _ bool) (webview.WebView, error) {
		inner := opts.OnMessage
		opts.OnMessage = func(msg string) {
			inner(msg)
			view.Terminate()
		}
		h, err := webview.NewHeadless(ctx, opts)
		if err != nil {
			return nil, err
		}
		view = h
		return h, nil
	}

	done := make(chan error, 1)
	go func() {
		app := &App{}
		done <- app.Open(ctx, OpenOptions{
			Target:   htmlURL(`<script>window.external.invoke("bye");</script>`),
			Window:   config.WindowConfig{Width: 320, Height: 240, Hint: "none"},
			Headless: true,
		}, factory)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Open did not return after the view terminated from its message handler")
	}
	assert.NoError(t, ctx.Err(), "the view stopped itself, not the context")
	assert.Contains(t, out.String(), `"message":"bye"`)
}

func TestOpenWatchReloadsLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(`<script>window.external.invoke("v1");</script>`), 0o644))

	ctx, _ := testContext(t)
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	var rewritten atomic.Bool
	var got []string
	seen := func(msg string) {
		got = append(got, msg)
		if msg == "v1" && rewritten.CompareAndSwap(false, true) {
			// Let the watcher register before the write.
			time.Sleep(100 * time.Millisecond)
			require.NoError(t, os.WriteFile(path, []byte(`<script>window.external.invoke("v2");</script>`), 0o644))
		}
	}

	app := &App{}
	err := app.Open(ctx, OpenOptions{
		Target:   path,
		Window:   config.WindowConfig{Width: 320, Height: 240, Hint: "none"},
		Headless: true,
		Watch:    true,
		Debounce: 50 * time.Millisecond,
	}, headlessUntil("v2", stop, seen))
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, []string{"v1", "v2"}, got[:2])
}

func TestOpenRejectsBadInput(t *testing.T) {
	ctx, _ := testContext(t)
	app := &App{}

	err := app.Open(ctx, OpenOptions{Target: "", Headless: true}, nil)
	require.Error(t, err)

	err = app.Open(ctx, OpenOptions{
		Target:   "about:blank",
		Window:   config.WindowConfig{Width: 100, Height: 100, Hint: "sideways"},
		Headless: true,
	}, nil)
	require.Error(t, err)

	err = app.Open(ctx, OpenOptions{
		Target:   "about:blank",
		Window:   config.WindowConfig{Width: -1, Height: 100, Hint: "none"},
		Headless: true,
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set size")
}

func TestNewAppLoadsConfigDir(t *testing.T) {
	dir := t.TempDir()
	out := &lockedBuffer{}

	app, err := NewApp(Options{ConfigDir: dir, LogLevel: "debug", LogFormat: "json", Output: out})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultConfig(), app.Config)
	path, exists := app.ConfigPath()
	assert.Equal(t, filepath.Join(dir, "config.toml"), path)
	assert.True(t, exists)

	app.Logger().Debug().Msg("hello")
	assert.Contains(t, out.String(), `"message":"hello"`)
}

func TestNewAppFallsBackOnInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[window\nwidth ="), 0o644))
	out := &lockedBuffer{}

	app, err := NewApp(Options{ConfigDir: dir, LogFormat: "json", Output: out})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), app.Config)
	assert.Contains(t, out.String(), "using default configuration")
}

func TestNewAppRejectsBadFlags(t *testing.T) {
	_, err := NewApp(Options{ConfigDir: t.TempDir(), LogLevel: "loud"})
	require.Error(t, err)

	_, err = NewApp(Options{ConfigDir: t.TempDir(), LogFormat: "xml"})
	require.Error(t, err)
}
