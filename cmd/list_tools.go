package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listToolsCmd = &cobra.Command{
	Use:   "list-tools",
	Short: "List the tools served by the gateway",
	Long:  "Lists the tools in the order the gateway advertises them in tools/list.",
	Args:  cobra.NoArgs,
	RunE:  runListTools,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "2",
	},
}

func init() {
	rootCmd.AddCommand(listToolsCmd)
}

func runListTools(cmd *cobra.Command, args []string) error {
	list, err := apiClient.ListTools()
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}
	if len(list) == 0 {
		cmd.Println("There are no tools")
		return nil
	}

	for i, t := range list {
		cmd.Printf("%d. %s\n", i+1, t.Name)
		cmd.Printf("   %s\n", t.Description)
	}
	return nil
}
