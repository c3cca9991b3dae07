// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bascanada/lambdalogs/pkg/log"
	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/client/config"
	"github.com/bascanada/lambdalogs/pkg/log/factory"
	"github.com/bascanada/lambdalogs/pkg/tui"
)

var fetchTimeout time.Duration

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"ui"},
	Short:   "Launch the interactive log browser",
	Long: `Launch an interactive Terminal User Interface for browsing Lambda logs.

The TUI walks through four screens:
  - Profile: the AWS profiles of the config and of ~/.aws
  - Function: the functions having a /aws/lambda/ log group
  - Time range: a quick range (1/2 to switch column) or a custom one
    (space to edit, arrows to move and adjust)
  - Logs: type to filter, all keywords must match, Enter expands an entry

Esc goes back one screen, Ctrl+c quits.

Examples:
  # Launch with the profiles of ~/.aws
  lambdalogs

  # Use a LocalStack config
  lambdalogs tui -c ./localstack.yaml --logging-path /tmp/lambdalogs.log`,
	PreRun:       onTUIStart,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	tuiCmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 2*time.Minute, "abort a fetch taking longer, 0 to wait forever")
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	profiles, err := loadProfiles(ctx, cfg)
	if err != nil {
		return err
	}

	model := tui.New(profiles, factory.GetLogClientFactory(cfg))
	model.FetchTimeout = fetchTimeout

	watcher, err := config.NewWatcher(cfg.WatchedFiles())
	if err != nil {
		log.Warn("profile files not watched: %v", err)
	} else {
		defer watcher.Close()
		model.ProfileChanges = watcher.Changes()
		model.ReloadProfiles = func(ctx context.Context) ([]client.Profile, error) {
			return config.LoadProfiles(ctx, cfg)
		}
	}

	// Create the bubbletea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Run the TUI
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	// Report the error left on screen when quitting
	if m, ok := finalModel.(tui.Model); ok && m.Err() != nil {
		fmt.Fprintf(os.Stderr, "Last error: %v\n", m.Err())
	}
	return nil
}
