//go:build !windows

package deps

// WebView2Version only applies to Windows.
func WebView2Version() (string, error) {
	return "", ErrNotSupported
}
