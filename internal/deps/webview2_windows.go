package deps

import "golang.org/x/sys/windows/registry"

// webView2ClientID is the EdgeUpdate client id of the Evergreen WebView2
// runtime.
const webView2ClientID = `{F3017226-FE2A-4295-8BDF-00C3A9A7E4C5}`

// WebView2Version returns the installed WebView2 runtime version from the
// EdgeUpdate registration.
func WebView2Version() (string, error) {
	keys := []struct {
		root registry.Key
		path string
	}{
		{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Microsoft\EdgeUpdate\Clients\` + webView2ClientID},
		{registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\EdgeUpdate\Clients\` + webView2ClientID},
		{registry.CURRENT_USER, `Software\Microsoft\EdgeUpdate\Clients\` + webView2ClientID},
	}

	for _, k := range keys {
		key, err := registry.OpenKey(k.root, k.path, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		v, _, err := key.GetStringValue("pv")
		_ = key.Close()
		if err == nil && v != "" && v != "0.0.0.0" {
			return v, nil
		}
	}
	return "", ErrWebView2Missing
}
