package deps

import (
	"path/filepath"
	"strings"
)

// displayCandidates lists the socket paths a GTK client would connect to,
// Wayland first. A DISPLAY naming a remote host yields no candidate.
func displayCandidates(getenv func(string) string) []string {
	var out []string
	if wl := getenv("WAYLAND_DISPLAY"); wl != "" {
		if !filepath.IsAbs(wl) {
			wl = filepath.Join(getenv("XDG_RUNTIME_DIR"), wl)
		}
		out = append(out, wl)
	}
	if d := getenv("DISPLAY"); d != "" {
		host, rest, found := strings.Cut(d, ":")
		if found && (host == "" || host == "unix") {
			num, _, _ := strings.Cut(rest, ".")
			out = append(out, "/tmp/.X11-unix/X"+num)
		}
	}
	return out
}
