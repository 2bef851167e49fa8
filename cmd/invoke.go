package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var invokeCmdInput string

var invokeCmd = &cobra.Command{
	Use:   "invoke <name>",
	Short: "Invoke a tool through the gateway",
	Long: "Sends a tools/call request to the gateway and prints the tool's JSON output.\n" +
		"Tool arguments are passed as a JSON object, eg:\n" +
		"  ada-mcp-tools invoke Ada.invoke --input '{\"verb\": \"feel\", \"payload\": {\"qualia\": \"warm\"}}'\n",
	Args: cobra.ExactArgs(1),
	RunE: runInvokeTool,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "4",
	},
}

func init() {
	invokeCmd.Flags().StringVar(&invokeCmdInput, "input", "{}", "tool arguments as a JSON object")
	rootCmd.AddCommand(invokeCmd)
}

func parseToolInput(input string) (map[string]any, error) {
	args := map[string]any{}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return nil, fmt.Errorf("invalid input, expected a JSON object: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func runInvokeTool(cmd *cobra.Command, args []string) error {
	toolArgs, err := parseToolInput(invokeCmdInput)
	if err != nil {
		return err
	}

	if _, err := apiClient.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}
	res, err := apiClient.CallTool(args[0], toolArgs)
	if err != nil {
		return fmt.Errorf("failed to invoke tool '%s': %w", args[0], err)
	}

	text := res.Text()
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(text), "", "  "); err != nil {
		// not JSON, print as is
		cmd.Println(text)
		return nil
	}
	cmd.Println(pretty.String())
	return nil
}
