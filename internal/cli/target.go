package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/nativeview/pkg/webview"
)

// Target is what `open` navigates to.
type Target struct {
	URL string
	// Path is the local file behind URL, empty for remote documents.
	Path string
}

// ResolveTarget turns a command line argument into a URL. Arguments with a
// scheme are used as is; anything else must name an existing local file.
func ResolveTarget(arg string) (Target, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Target{}, fmt.Errorf("empty target")
	}

	if hasScheme(arg) {
		t := Target{URL: arg}
		if strings.HasPrefix(strings.ToLower(arg), "file:") {
			p, err := webview.FilePathFromURL(arg)
			if err != nil {
				return Target{}, err
			}
			t.Path = p
		}
		return t, nil
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return Target{}, fmt.Errorf("resolve %s: %w", arg, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Target{}, fmt.Errorf("open %s: %w (use a full URL such as https://%s for remote pages)", arg, err, arg)
	}
	if info.IsDir() {
		return Target{}, fmt.Errorf("open %s: is a directory", arg)
	}
	u, err := webview.FileURL(abs)
	if err != nil {
		return Target{}, err
	}
	return Target{URL: u, Path: abs}, nil
}

// hasScheme reports whether s starts with a URL scheme. Single letters are
// Windows drive names, not schemes.
func hasScheme(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return len(u.Scheme) > 1
}
