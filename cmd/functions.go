package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bascanada/lambdalogs/pkg/log/client"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the functions of a profile",
	Long: `List the functions having a log group for a profile.

Examples:
  lambdalogs functions -p prod
  lambdalogs functions -p prod --filter "orders api"`,
	PreRun:       onCommandStart,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		c, _, err := getClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return RunFunctions(cmd.Context(), os.Stdout, c, filterText, jsonOutput)
	},
}

func init() {
	addProfileFlags(functionsCmd)
	functionsCmd.Flags().StringVar(&filterText, "filter", "", "keep functions containing every keyword")
	functionsCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as a JSON array")
}

// RunFunctions writes the function names matching filter, one per line.
func RunFunctions(ctx context.Context, w io.Writer, c client.LogClient, filter string, asJSON bool) error {
	functions, err := c.ListFunctions(ctx)
	if err != nil {
		return err
	}
	functions = client.FilterStrings(functions, client.ParseKeywordFilter(filter))

	if asJSON {
		return printJSON(w, functions)
	}
	for _, f := range functions {
		if _, err := fmt.Fprintln(w, f); err != nil {
			return err
		}
	}
	return nil
}
