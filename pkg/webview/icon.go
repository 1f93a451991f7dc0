package webview

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// iconFile is an icon written to a private temporary directory for engines
// that only accept icons by path.
type iconFile struct {
	dir  string
	path string
}

// Name returns the file name without its extension.
func (f *iconFile) Name() string {
	base := filepath.Base(f.path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// Remove deletes the temporary directory.
func (f *iconFile) Remove() {
	if f != nil && f.dir != "" {
		_ = os.RemoveAll(f.dir)
	}
}

// writeIconFile stores data in a new temporary directory. The extension is
// chosen from the image signature so toolkits can pick a loader.
func writeIconFile(data []byte) (*iconFile, error) {
	if len(data) == 0 {
		return nil, ErrInvalidIcon
	}

	dir, err := os.MkdirTemp("", "nativeview-icon-")
	if err != nil {
		return nil, fmt.Errorf("create icon directory: %w", err)
	}

	// The directory name is unique, so the icon name is too.
	path := filepath.Join(dir, filepath.Base(dir)+iconExt(data))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("write icon file: %w", err)
	}
	return &iconFile{dir: dir, path: path}, nil
}

func iconExt(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return ".png"
	case bytes.HasPrefix(data, []byte{0, 0, 1, 0}):
		return ".ico"
	case bytes.HasPrefix(data, []byte("<svg")), bytes.HasPrefix(data, []byte("<?xml")):
		return ".svg"
	default:
		return ".png"
	}
}
