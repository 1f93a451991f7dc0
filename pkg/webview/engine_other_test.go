//go:build !(linux && cgo) && !(darwin && cgo) && !windows

package webview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithoutNativeEngine(t *testing.T) {
	w, err := New(context.Background(), Options{})
	assert.Nil(t, w)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}
