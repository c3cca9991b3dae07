// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bascanada/lambdalogs/pkg/log"
)

var (
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "lambdalogs",
	Short: "Browse the CloudWatch logs of AWS Lambda functions",
	Long: `Browse the CloudWatch logs of AWS Lambda functions from the terminal.

Pick an AWS profile, a function and a time range, then filter the entries
with keywords. Without a subcommand the interactive interface is started.`,
	PreRun:       onTUIStart,
	SilenceUsage: true,
	RunE:         runTUI,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (json or yaml), defaults to $"+"LAMBDALOGS_CONFIG or ~/.lambdalogs/config.yaml")
	rootCmd.PersistentFlags().StringVar(&logger.Path, "logging-path", "", "file to output logs of the application")
	rootCmd.PersistentFlags().StringVar(&logger.Level, "logging-level", "", "logging level to output INFO WARN ERROR DEBUG TRACE")
	rootCmd.PersistentFlags().BoolVar(&logger.Stdout, "logging-stdout", false, "output appplication log in the stdout, ignored by the TUI")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colored output: auto, always or never")

	// Register completion for --logging-level flag
	_ = rootCmd.RegisterFlagCompletionFunc("logging-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return log.Levels, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("color", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(queryCommand)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(functionsCmd)
	rootCmd.AddCommand(versionCommand)
}
