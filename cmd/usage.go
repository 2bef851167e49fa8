package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/ada-mcp/ada-mcp-tools/pkg/types"
	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage <name>",
	Short: "Get usage information for a tool",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetToolUsage,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "3",
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}

func runGetToolUsage(cmd *cobra.Command, args []string) error {
	t, err := apiClient.GetTool(args[0])
	if err != nil {
		return fmt.Errorf("failed to get tool '%s': %w", args[0], err)
	}
	printToolUsage(cmd, t)
	return nil
}

// printToolUsage prints the tool's input parameters, required ones first.
func printToolUsage(cmd *cobra.Command, t *types.Tool) {
	cmd.Println(t.Name)
	cmd.Println(t.Description)

	if len(t.InputSchema.Properties) == 0 {
		cmd.Println("This tool does not require any input parameters.")
		return
	}

	names := make([]string, 0, len(t.InputSchema.Properties))
	for k := range t.InputSchema.Properties {
		names = append(names, k)
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri := slices.Contains(t.InputSchema.Required, names[i])
		rj := slices.Contains(t.InputSchema.Required, names[j])
		if ri != rj {
			return ri
		}
		return names[i] < names[j]
	})

	cmd.Println()
	cmd.Println("Input Parameters:")
	for _, k := range names {
		requiredOrOptional := "optional"
		if slices.Contains(t.InputSchema.Required, k) {
			requiredOrOptional = "required"
		}
		cmd.Printf("  %s (%s)\n", k, requiredOrOptional)

		prop, ok := t.InputSchema.Properties[k].(map[string]any)
		if !ok {
			continue
		}
		if typ, ok := prop["type"]; ok {
			cmd.Printf("      type: %v\n", typ)
		}
		if desc, ok := prop["description"]; ok {
			cmd.Printf("      %v\n", desc)
		}
		if enum, ok := prop["enum"].([]any); ok {
			vals := make([]string, 0, len(enum))
			for _, e := range enum {
				vals = append(vals, fmt.Sprint(e))
			}
			cmd.Printf("      one of: %s\n", strings.Join(vals, ", "))
		}
		if def, ok := prop["default"]; ok {
			j, err := json.Marshal(def)
			if err != nil {
				cmd.Printf("      default: %v\n", def)
			} else {
				cmd.Printf("      default: %s\n", j)
			}
		}
	}

	if len(t.Annotations) > 0 {
		cmd.Println()
		cmd.Println("Annotations:")
		keys := make([]string, 0, len(t.Annotations))
		for k := range t.Annotations {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("* %s = %v\n", k, t.Annotations[k])
		}
	}
}
