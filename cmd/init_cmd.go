package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/client/config"
	"github.com/bascanada/lambdalogs/pkg/ty"
)

var format string

// exampleConfig is the config written by init: one explicit profile and
// a LocalStack endpoint, discovery kept on.
func exampleConfig() config.Config {
	return config.Config{
		Profiles: []client.Profile{
			{Name: "localstack", Region: "us-east-1"},
		},
		Discover:       ty.OptWrap(true),
		Endpoint:       ty.OptWrap("http://localhost:4566"),
		LogGroupPrefix: config.DefaultLogGroupPrefix,
		PageSize:       config.DefaultPageSize,
	}
}

func marshalConfig(c config.Config, format string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(&c, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(c)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example config file in the current directory",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := marshalConfig(exampleConfig(), format)
		if err != nil {
			fmt.Printf("failed to marshal config: %v\n", err)
			os.Exit(1)
		}

		fileName := "config." + format

		if err := os.WriteFile(fileName, data, 0644); err != nil {
			fmt.Printf("failed to write config file: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("created config file: %s\n", fileName)
	},
}

func init() {
	initCmd.Flags().StringVar(&format, "format", "yaml", "config file format (json or yaml)")
	rootCmd.AddCommand(initCmd)
}
