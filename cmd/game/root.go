package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var assetsFlag string
	var baseURLFlag string
	var logLevelFlag string
	var seedFlag int64

	ctx := newCommandContext(&configFlag, &assetsFlag, &baseURLFlag, &logLevelFlag, &seedFlag)

	rootCmd := &cobra.Command{
		Use:           "drift-gallery",
		Short:         "Infinite scrolling image gallery",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGallery(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&assetsFlag, "assets", "", "Directory holding images/ and audio/")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Fetch assets over HTTP from this URL instead of a directory")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", -1, "Pairing seed (overrides the config file)")

	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
