// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/client/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive wizard to generate a configuration file",
	Long: `Launch an interactive wizard to create or update the lambdalogs configuration.

The wizard asks whether to discover the profiles of ~/.aws, lets you add a
profile with its region and sets an optional custom endpoint (LocalStack).

Example:
  lambdalogs configure
  lambdalogs configure -c /path/to/config.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConfigWizard(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

// wizardAnswers holds the values typed in the wizard.
type wizardAnswers struct {
	Discover       bool
	ProfileName    string
	ProfileRegion  string
	Endpoint       string
	LogGroupPrefix string
	PageSize       string
}

func runConfigWizard(cfgPath string) error {
	targetPath := strings.TrimSpace(cfgPath)
	if targetPath == "" {
		targetPath = config.DefaultPath()
	}

	// Start from the existing file when there is one
	existing, err := config.LoadConfig(targetPath)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return err
		}
		existing = config.Default()
	}

	answers := wizardAnswers{
		Discover:       existing.Discover.Or(true),
		Endpoint:       existing.EndpointURL(),
		LogGroupPrefix: existing.LogGroupPrefix,
		PageSize:       strconv.Itoa(existing.PageSize),
	}

	var sharedFiles []string
	sharedFiles = append(sharedFiles, existing.AWSConfigFiles...)
	sharedFiles = append(sharedFiles, existing.AWSCredentialsFiles...)

	// Welcome message
	fmt.Println("🚀 Welcome to lambdalogs configuration wizard!")
	fmt.Println()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Discover the profiles of your AWS shared config?").
				Description(strings.Join(sharedFiles, ", ")).
				Value(&answers.Discover),

			huh.NewInput().
				Title("Add a profile (optional)").
				Description("Name of an AWS profile to always list first").
				Placeholder("prod").
				Value(&answers.ProfileName).
				Validate(func(str string) error {
					if strings.ContainsAny(str, " \t\n") {
						return fmt.Errorf("name cannot contain whitespace")
					}
					return nil
				}),

			huh.NewInput().
				Title("Region of this profile (optional)").
				Placeholder("us-east-1").
				Value(&answers.ProfileRegion),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Custom CloudWatch endpoint (optional)").
				Description("For LocalStack use http://localhost:4566").
				Value(&answers.Endpoint).
				Validate(func(str string) error {
					if str != "" && !strings.HasPrefix(str, "http") {
						return fmt.Errorf("endpoint must be an http(s) url")
					}
					return nil
				}),

			huh.NewInput().
				Title("Log group prefix").
				Value(&answers.LogGroupPrefix),

			huh.NewInput().
				Title("Events per request").
				Value(&answers.PageSize).
				Validate(validatePageSize),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg, err := buildConfig(existing, answers)
	if err != nil {
		return err
	}

	// Preview Configuration
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate YAML: %w", err)
	}

	fmt.Println("\n" + strings.Repeat("─", 60))
	fmt.Println("📝 Generated Configuration:")
	fmt.Println(strings.Repeat("─", 60))
	fmt.Println(string(out))
	fmt.Println(strings.Repeat("─", 60) + "\n")

	var confirm bool
	confirmForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Description(fmt.Sprintf("Target: %s", targetPath)).
				Affirmative("Yes, save it!").
				Negative("No, cancel").
				Value(&confirm),
		),
	)

	if err := confirmForm.Run(); err != nil {
		return err
	}

	if !confirm {
		fmt.Println("❌ Configuration not saved. Run 'lambdalogs configure' again when ready.")
		return nil
	}

	if err := config.SaveConfig(targetPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\n✅ Configuration saved to %s\n\n", targetPath)
	fmt.Println("🎉 You're all set! Try it now:")
	fmt.Println("   lambdalogs profiles")
	fmt.Println("   lambdalogs")

	return nil
}

func validatePageSize(str string) error {
	n, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 1 || n > config.MaxPageSize {
		return fmt.Errorf("must be between 1 and %d", config.MaxPageSize)
	}
	return nil
}

// buildConfig merges the wizard answers into the existing configuration.
// A profile with the same name is replaced.
func buildConfig(existing *config.Config, answers wizardAnswers) (*config.Config, error) {
	cfg := *existing
	cfg.Profiles = append([]client.Profile(nil), existing.Profiles...)

	cfg.Discover.S(answers.Discover)

	if endpoint := strings.TrimSpace(answers.Endpoint); endpoint != "" {
		cfg.Endpoint.S(endpoint)
	} else {
		cfg.Endpoint.U()
	}

	if prefix := strings.TrimSpace(answers.LogGroupPrefix); prefix != "" {
		cfg.LogGroupPrefix = prefix
	}

	if answers.PageSize != "" {
		if err := validatePageSize(answers.PageSize); err != nil {
			return nil, fmt.Errorf("page size: %w", err)
		}
		cfg.PageSize, _ = strconv.Atoi(strings.TrimSpace(answers.PageSize))
	}

	if name := strings.TrimSpace(answers.ProfileName); name != "" {
		profile := client.Profile{Name: name, Region: strings.TrimSpace(answers.ProfileRegion)}
		replaced := false
		for i := range cfg.Profiles {
			if cfg.Profiles[i].Name == name {
				cfg.Profiles[i] = profile
				replaced = true
			}
		}
		if !replaced {
			cfg.Profiles = append(cfg.Profiles, profile)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
