//go:build !linux

package deps

// DisplaySocket only applies to Linux desktops.
func DisplaySocket() (string, error) {
	return "", ErrNotSupported
}
