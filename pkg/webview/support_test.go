package webview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineScripts(t *testing.T) {
	page := `<!doctype html>
<html><head>
<script>var a = "<b>";</script>
<script src="remote.js"></script>
<script type="application/json">{"not": "code"}</script>
<script type="text/javascript">var b = 1 < 2 && 3 > 2;</script>
<script>   </script>
</head><body><p>text</p><script>var c = 3;</script></body></html>`

	assert.Equal(t, []string{
		`var a = "<b>";`,
		`var b = 1 < 2 && 3 > 2;`,
		`var c = 3;`,
	}, inlineScripts(page))
	assert.Empty(t, inlineScripts(""))
}

func TestDefaultLoader(t *testing.T) {
	ctx := context.Background()

	page, err := DefaultLoader(ctx, "about:blank")
	require.NoError(t, err)
	assert.Empty(t, page)

	page, err = DefaultLoader(ctx, "data:text/html,<p>hi%20there</p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi there</p>", page)

	page, err = DefaultLoader(ctx, htmlURL("<p>encoded</p>"))
	require.NoError(t, err)
	assert.Equal(t, "<p>encoded</p>", page)

	_, err = DefaultLoader(ctx, "data:text/html")
	assert.Error(t, err)

	_, err = DefaultLoader(ctx, "https://example.com/")
	assert.ErrorIs(t, err, ErrUnsupportedURL)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = DefaultLoader(cancelled, "about:blank")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultLoaderReadsFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<h1>local</h1>"), 0o600))

	u, err := FileURL(path)
	require.NoError(t, err)
	assert.Contains(t, u, "file://")

	back, err := FilePathFromURL(u)
	require.NoError(t, err)
	assert.Equal(t, path, back)

	page, err := DefaultLoader(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "<h1>local</h1>", page)

	_, err = DefaultLoader(context.Background(), u+".missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFatalAlertsAndExits(t *testing.T) {
	origExit, origAlert := exitProcess, showAlert
	t.Cleanup(func() { exitProcess, showAlert = origExit, origAlert })

	var code int
	var title, message string
	exitProcess = func(c int) { code = c }
	showAlert = func(ti, m string) { title, message = ti, m }

	cause := errors.New("runtime missing")
	err := fatal(context.Background(), "WebView2 runtime not found", cause)

	assert.Equal(t, 1, code)
	assert.Equal(t, "WebView2 runtime not found", title)
	assert.Contains(t, message, "runtime missing")
	assert.ErrorIs(t, err, ErrEngineUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestWriteIconFile(t *testing.T) {
	_, err := writeIconFile(nil)
	assert.ErrorIs(t, err, ErrInvalidIcon)

	png := []byte("\x89PNG\r\n\x1a\nrest")
	f, err := writeIconFile(png)
	require.NoError(t, err)

	assert.Equal(t, ".png", filepath.Ext(f.path))
	assert.Equal(t, filepath.Base(f.dir), f.Name())
	data, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.Equal(t, png, data)

	f.Remove()
	_, err = os.Stat(f.dir)
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, ".ico", iconExt([]byte{0, 0, 1, 0, 9}))
	assert.Equal(t, ".svg", iconExt([]byte("<svg xmlns=")))
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)

	o = Options{Width: 10, Height: 20}.withDefaults()
	assert.Equal(t, 10, o.Width)
	assert.Equal(t, 20, o.Height)
}

func TestGoroutineIDDiffersAcrossGoroutines(t *testing.T) {
	here := goroutineID()
	assert.NotZero(t, here)
	assert.Equal(t, here, goroutineID())

	other := make(chan uint64)
	go func() { other <- goroutineID() }()
	assert.NotEqual(t, here, <-other)
}
