package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bascanada/lambdalogs/pkg/log"
	"github.com/bascanada/lambdalogs/pkg/log/client/config"
	"github.com/bascanada/lambdalogs/pkg/log/printer"
)

var (
	// selection
	profileName  string
	functionName string
	region       string

	// range
	from string
	to   string
	last string

	// filtering and output
	filterText string
	jsonOutput bool
	expand     bool

	colorMode string

	logger log.MyLoggerOptions
)

func onCommandStart(cmd *cobra.Command, args []string) {
	if err := log.ConfigureMyLogger(&logger); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	enabled, err := parseColorMode(colorMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using auto\n", err)
	}
	printer.InitColorState(enabled, os.Stdout)
}

// onTUIStart never logs to stdout since the terminal belongs to the TUI.
func onTUIStart(cmd *cobra.Command, args []string) {
	logger.Stdout = false
	onCommandStart(cmd, args)
}

// parseColorMode maps --color to the setting of printer.InitColorState,
// nil meaning auto-detection.
func parseColorMode(mode string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return nil, nil
	case "always", "true", "on":
		enabled := true
		return &enabled, nil
	case "never", "false", "off":
		enabled := false
		return &enabled, nil
	}
	return nil, fmt.Errorf("unknown color mode %q", mode)
}

// loadConfigForCompletion is a helper function that loads the configuration
// for shell completion functions. It handles errors gracefully by returning
// the appropriate shell completion directive.
func loadConfigForCompletion(cmd *cobra.Command) (*config.Config, cobra.ShellCompDirective) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		// Cobra will report the error to the user's shell.
		return nil, cobra.ShellCompDirectiveError
	}
	return cfg, cobra.ShellCompDirectiveDefault
}

// completeProfiles suggests profile names with their region.
func completeProfiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, directive := loadConfigForCompletion(cmd)
	if cfg == nil {
		return nil, directive
	}
	profiles, err := config.LoadProfiles(cmd.Context(), cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var suggestions []string
	for _, p := range profiles {
		if !strings.HasPrefix(p.Name, toComplete) {
			continue
		}
		// Format: "value\tdescription"
		if p.Region != "" {
			suggestions = append(suggestions, p.Name+"\t"+p.Region)
		} else {
			suggestions = append(suggestions, p.Name)
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// addProfileFlags registers --profile and --region on a command.
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "AWS profile to use")
	cmd.Flags().StringVar(&region, "region", "", "override the region of the profile")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.RegisterFlagCompletionFunc("profile", completeProfiles)
}
