package deps

import (
	"os"
	"path/filepath"
	"strings"
)

// CommandEnvWithPrefix returns an environment for exec.Cmd.Env with the
// pkg-config and library paths of a manual install under prefix prepended.
func CommandEnvWithPrefix(prefix string) []string {
	if strings.TrimSpace(prefix) == "" {
		return os.Environ()
	}

	env := make(map[string]string)
	var order []string
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, seen := env[k]; !seen {
			order = append(order, k)
		}
		env[k] = v
	}

	for k, values := range prefixEnv(prefix) {
		if _, seen := env[k]; !seen {
			order = append(order, k)
		}
		env[k] = prependPathList(env[k], values...)
	}

	out := make([]string, 0, len(order))
	for _, k := range order {
		out = append(out, k+"="+env[k])
	}
	return out
}

func prefixEnv(prefix string) map[string][]string {
	prefix = filepath.Clean(prefix)
	libDirs := []string{"lib", "lib64", filepath.Join("lib", "x86_64-linux-gnu"), filepath.Join("lib", "aarch64-linux-gnu")}

	var pkgConfig, ldLibrary []string
	for _, dir := range libDirs {
		pkgConfig = append(pkgConfig, filepath.Join(prefix, dir, "pkgconfig"))
		ldLibrary = append(ldLibrary, filepath.Join(prefix, dir))
	}
	pkgConfig = append(pkgConfig, filepath.Join(prefix, "share", "pkgconfig"))

	return map[string][]string{
		"PKG_CONFIG_PATH": pkgConfig,
		"LD_LIBRARY_PATH": ldLibrary,
	}
}

func prependPathList(existing string, values ...string) string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values)+4)

	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, v := range values {
		add(v)
	}
	if existing != "" {
		for _, v := range strings.Split(existing, string(os.PathListSeparator)) {
			add(v)
		}
	}
	return strings.Join(out, string(os.PathListSeparator))
}
