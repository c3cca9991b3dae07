package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bascanada/lambdalogs/pkg/log/client"
)

var profilesCmd = &cobra.Command{
	Use:          "profiles",
	Short:        "List the AWS profiles available to the TUI",
	PreRun:       onCommandStart,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		profiles, err := loadProfiles(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(os.Stdout, profiles)
		}
		return RunProfiles(os.Stdout, profiles)
	},
}

func init() {
	profilesCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
}

// RunProfiles writes profiles as a table.
func RunProfiles(w io.Writer, profiles []client.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREGION\tSOURCE")
	for _, p := range profiles {
		region := p.Region
		if region == "" {
			region = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, region, p.Source)
	}
	return tw.Flush()
}
