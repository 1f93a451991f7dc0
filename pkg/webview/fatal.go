package webview

import (
	"context"
	"fmt"
	"os"

	"github.com/bnema/nativeview/internal/logging"
)

// exitProcess ends the process after a fatal setup failure. Tests replace it.
var exitProcess = os.Exit

// showAlert displays a blocking native alert. Platforms without a usable
// display fall back to stderr.
var showAlert = platformAlert

// fatal reports a failure to create the native web component and exits with
// status 1. It returns the wrapped error for callers when exitProcess returns.
func fatal(ctx context.Context, title string, cause error) error {
	err := fmt.Errorf("%w: %w", ErrEngineUnavailable, cause)
	logging.FromContext(ctx).Error().Err(err).Msg(title)
	showAlert(title, err.Error())
	exitProcess(1)
	return err
}

func stderrAlert(title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}
