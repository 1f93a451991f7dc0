package webview

import (
	"errors"
	"strings"

	"github.com/grafana/sobek"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// documentPrelude gives each headless document the small part of the browser
// window surface that bridge scripts rely on.
const documentPrelude = `(function (g) {
	var listeners = {};
	g.window = g;
	g.self = g;
	g.addEventListener = function (type, fn) {
		(listeners[type] = listeners[type] || []).push(fn);
	};
	g.removeEventListener = function (type, fn) {
		var l = listeners[type] || [];
		var i = l.indexOf(fn);
		if (i >= 0) { l.splice(i, 1); }
	};
	g.dispatchEvent = function (ev) {
		var l = (listeners[ev.type] || []).slice();
		for (var i = 0; i < l.length; i++) { l[i].call(g, ev); }
		return true;
	};
	g.Event = function (type) { this.type = type; };
	g.CustomEvent = function (type, init) {
		this.type = type;
		this.detail = init && init.detail !== undefined ? init.detail : null;
	};
	g.document = { readyState: "loading", title: "" };
})(this);`

// document is one loaded page: a fresh script runtime per navigation.
type document struct {
	url    string
	vm     *sobek.Runtime
	logger zerolog.Logger
}

// newDocument creates the runtime and installs window, console, location
// and the native post channel.
func newDocument(rawURL string, logger zerolog.Logger, post func(string)) (*document, error) {
	d := &document{
		url:    rawURL,
		vm:     sobek.New(),
		logger: logger.With().Str("url", rawURL).Logger(),
	}

	global := d.vm.GlobalObject()

	native := d.vm.NewObject()
	if err := native.Set("postMessage", func(call sobek.FunctionCall) sobek.Value {
		post(call.Argument(0).String())
		return sobek.Undefined()
	}); err != nil {
		return nil, err
	}
	if err := global.Set("__nativeview", native); err != nil {
		return nil, err
	}

	console := d.vm.NewObject()
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		level := name
		if err := console.Set(name, func(call sobek.FunctionCall) sobek.Value {
			d.console(level, call.Arguments)
			return sobek.Undefined()
		}); err != nil {
			return nil, err
		}
	}
	if err := global.Set("console", console); err != nil {
		return nil, err
	}

	location := d.vm.NewObject()
	if err := location.Set("href", rawURL); err != nil {
		return nil, err
	}
	if err := global.Set("location", location); err != nil {
		return nil, err
	}

	if _, err := d.vm.RunScript("prelude.js", documentPrelude); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *document) console(level string, args []sobek.Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	msg := strings.Join(parts, " ")

	switch level {
	case "error":
		d.logger.Error().Str("source", "console").Msg(msg)
	case "warn":
		d.logger.Warn().Str("source", "console").Msg(msg)
	default:
		d.logger.Debug().Str("source", "console").Msg(msg)
	}
}

// run evaluates src and logs script errors. It reports false when the
// runtime was interrupted.
func (d *document) run(name, src string) bool {
	if _, err := d.vm.RunScript(name, src); err != nil {
		var interrupted *sobek.InterruptedError
		if errors.As(err, &interrupted) {
			return false
		}
		d.logger.Debug().Err(err).Str("script", name).Msg("script error")
	}
	return true
}

// markLoaded flips document.readyState once page scripts ran.
func (d *document) markLoaded() {
	d.run("ready.js", `document.readyState = "complete";`)
}

// inlineScripts returns the bodies of the inline <script> elements of doc in
// document order. Scripts with a src attribute or a non-JavaScript type are
// skipped.
func inlineScripts(doc string) []string {
	z := html.NewTokenizer(strings.NewReader(doc))
	var scripts []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return scripts
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "script" {
				continue
			}

			runnable := true
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				switch string(key) {
				case "src":
					runnable = false
				case "type":
					runnable = runnable && isJavaScriptType(string(val))
				}
			}

			if z.Next() != html.TextToken {
				continue
			}
			if body := string(z.Text()); runnable && strings.TrimSpace(body) != "" {
				scripts = append(scripts, body)
			}
		}
	}
}

func isJavaScriptType(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "text/javascript", "application/javascript", "module":
		return true
	default:
		return false
	}
}
