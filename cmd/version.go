package cmd

import (
	"github.com/ada-mcp/ada-mcp-tools/pkg/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("%s %s\n", version.ServerName, version.GetVersion())
	},
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "2",
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
