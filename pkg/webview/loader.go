package webview

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrUnsupportedURL is returned by DefaultLoader for schemes it cannot resolve.
var ErrUnsupportedURL = errors.New("webview: unsupported url scheme")

// Loader resolves a URL to an HTML document for the headless engine.
type Loader func(ctx context.Context, rawURL string) (string, error)

// DefaultLoader resolves about:blank, data: URLs and file:// URLs.
func DefaultLoader(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch {
	case rawURL == "about:blank":
		return "", nil
	case strings.HasPrefix(rawURL, "data:"):
		return decodeDataURL(rawURL)
	case strings.HasPrefix(rawURL, "file://"):
		path, err := FilePathFromURL(rawURL)
		if err != nil {
			return "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("load %s: %w", rawURL, err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
}

// decodeDataURL decodes data:[<mediatype>][;base64],<data>.
func decodeDataURL(rawURL string) (string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(rawURL, "data:"), ",")
	if !ok {
		return "", fmt.Errorf("malformed data url: missing comma")
	}

	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(payload)
		}
		if err != nil {
			return "", fmt.Errorf("malformed data url: %w", err)
		}
		return string(data), nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", fmt.Errorf("malformed data url: %w", err)
	}
	return text, nil
}

// FileURL returns the file:// URL of a local path.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if runtime.GOOS == "windows" {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String(), nil
}

// FilePathFromURL returns the local path of a file:// URL.
func FilePathFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", rawURL, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
	p := u.Path
	if runtime.GOOS == "windows" {
		p = strings.TrimPrefix(p, "/")
	}
	return filepath.FromSlash(p), nil
}
