//go:build !windows && !(darwin && cgo)

package webview

func platformAlert(title, message string) {
	stderrAlert(title, message)
}
