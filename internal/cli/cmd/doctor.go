package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/bnema/nativeview/internal/cli/styles"
	"github.com/bnema/nativeview/internal/deps"
)

var doctorPrefix string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the native web runtime is available",
	Long: `Doctor checks the prerequisites for opening a native web view.

- Linux: GTK4, WebKitGTK 6.0 and GLib through pkg-config, and a reachable
  Wayland or X11 display
- Windows: the WebView2 Runtime
- macOS: WebKit ships with the system

Examples:
  nativeview doctor
  nativeview doctor --prefix /opt/webkitgtk`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVar(&doctorPrefix, "prefix", "", "install prefix searched before the system pkg-config paths")
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	report := deps.NewChecker().Run(app.Ctx(), deps.Input{
		GOOS:   runtime.GOOS,
		Prefix: doctorPrefix,
	})

	renderer := styles.NewDoctorRenderer(app.Theme)
	fmt.Fprintln(cmd.OutOrStdout(), renderer.Render(report))

	if !report.OK {
		return fmt.Errorf("doctor found missing or outdated requirements")
	}
	return nil
}
