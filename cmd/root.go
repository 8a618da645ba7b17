package cmd

import (
	tomlrepo "github.com/bnema/droidfleet/internal/adapters/repo/toml"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "droidfleet",
		Short:         "Manage a fleet of Android test devices",
		Long:          "droidfleet brings up a fleet of adb-attached Android devices for a test run: it verifies root access, collects logcat, opens SL4A sessions and tears everything down again.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.logLevel, "log-level", app.logLevel, "log level (debug, info, warn, error)")
	flags.String("fleet", "", "path to the fleet file (default ~/.droidfleet/fleet.toml)")
	_ = app.config.BindPFlag(tomlrepo.FleetPathKey, flags.Lookup("fleet"))

	rootCmd.AddCommand(
		newVersionCmd(),
		newDevicesCmd(app),
		newUpCmd(app),
		newRebootCmd(app),
		newExcerptCmd(app),
		newBugReportCmd(app),
		newIperfCmd(app),
	)

	return rootCmd
}
