package webview

import "golang.org/x/sys/windows"

const (
	mbOK        = 0x00000000
	mbIconError = 0x00000010
)

func platformAlert(title, message string) {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		stderrAlert(title, message)
		return
	}
	m, err := windows.UTF16PtrFromString(message)
	if err != nil {
		stderrAlert(title, message)
		return
	}
	_, _ = windows.MessageBox(0, m, t, mbOK|mbIconError)
}
