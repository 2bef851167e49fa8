package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the gateway is up and print its endpoints",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "1",
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	h, err := apiClient.Health()
	if err != nil {
		return fmt.Errorf("gateway at %s is not reachable: %w", apiClient.BaseURL(), err)
	}
	cmd.Printf("%s is %s\n", h.Server, h.Status)

	d, err := apiClient.Discover()
	if err != nil {
		return fmt.Errorf("failed to get discovery document: %w", err)
	}
	cmd.Printf("SSE endpoint:     %s\n", d.Endpoints.SSE)
	cmd.Printf("Message endpoint: %s\n", d.Endpoints.Message)
	return nil
}
