// Package bridge connects page script to native code: the bootstrap script
// that exposes window.external.invoke, the ordered registry of document-start
// scripts, and the receiver that hands message bodies to the host callback.
package bridge

import (
	"encoding/json"
	"fmt"
)

// HandlerName is the name of the single native message handler.
const HandlerName = "external"

// Channel is the engine-specific script expression that posts a string to the
// native side.
type Channel string

const (
	// ChannelWebKit posts through a WebKit script message handler (WebKitGTK, WKWebView).
	ChannelWebKit Channel = "window.webkit.messageHandlers." + HandlerName + ".postMessage"
	// ChannelWebView2 posts through the WebView2 host object.
	ChannelWebView2 Channel = "window.chrome.webview.postMessage"
	// ChannelHeadless posts through the in-process headless engine.
	ChannelHeadless Channel = "window.__nativeview.postMessage"
)

// Bootstrap returns the script that defines window.external.invoke on top of ch.
// It must run before any other script in every document.
func Bootstrap(ch Channel) string {
	return "window.external={invoke:function(s){" + string(ch) + "(s);}};"
}

// Quote returns s as a JavaScript string literal.
func Quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// json.Marshal cannot fail on a string.
		return `""`
	}
	return string(b)
}

// DispatchEventScript returns a script that fires a CustomEvent named name on
// window with detail as its string detail.
func DispatchEventScript(name, detail string) string {
	return fmt.Sprintf("window.dispatchEvent(new CustomEvent(%s,{detail:%s}));", Quote(name), Quote(detail))
}
