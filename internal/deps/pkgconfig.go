package deps

import (
	"context"
	"os/exec"
	"strings"
)

// VersionProbe reports the installed version of a pkg-config module.
type VersionProbe interface {
	ModVersion(ctx context.Context, pkgName, prefix string) (string, error)
}

// PkgConfigProbe uses pkg-config to query module versions.
type PkgConfigProbe struct {
	// Command overrides the pkg-config binary; empty looks it up in PATH.
	Command string
}

func NewPkgConfigProbe() *PkgConfigProbe {
	return &PkgConfigProbe{}
}

func (p *PkgConfigProbe) ModVersion(ctx context.Context, pkgName, prefix string) (string, error) {
	name := "pkg-config"
	if p != nil && p.Command != "" {
		name = p.Command
	}
	pc, err := exec.LookPath(name)
	if err != nil {
		return "", &PkgConfigError{
			Kind:    PkgConfigErrorKindCommandMissing,
			Package: pkgName,
			Err:     ErrPkgConfigMissing,
		}
	}

	cmd := exec.CommandContext(ctx, pc, "--modversion", pkgName)
	cmd.Env = CommandEnvWithPrefix(prefix)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &PkgConfigError{
			Kind:    PkgConfigErrorKindPackageMissing,
			Package: pkgName,
			Output:  strings.TrimSpace(string(out)),
			Err:     ErrPkgConfigPackageMissing,
		}
	}
	return strings.TrimSpace(string(out)), nil
}
