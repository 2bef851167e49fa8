// Package cmd implements the ada-mcp-tools command line: the gateway server
// and a few client commands that talk to a running gateway.
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ada-mcp/ada-mcp-tools/client"
	"github.com/spf13/cobra"
)

type subCommandGroup string

const (
	subCommandGroupBasic    subCommandGroup = "basic"
	subCommandGroupAdvanced subCommandGroup = "advanced"
)

const (
	GatewayURLEnvVar  = "ADA_GATEWAY_URL"
	GatewayURLDefault = "http://127.0.0.1:8080"
)

const asciiArt = `
    _    ____    _       __  __  ____ ____
   / \  |  _ \  / \     |  \/  |/ ___|  _ \
  / _ \ | | | |/ _ \    | |\/| | |   | |_) |
 / ___ \| |_| / ___ \   | |  | | |___|  __/
/_/   \_\____/_/   \_\  |_|  |_|\____|_|

`

var (
	gatewayURL  string
	accessToken string

	// apiClient is the client used by commands that talk to a running gateway
	apiClient *client.Client

	defaultHelp func(*cobra.Command, []string)
)

var rootCmd = &cobra.Command{
	Use:   "ada-mcp-tools",
	Short: "MCP gateway for the Ada tools",
	Long: "ada-mcp-tools serves the Ada.invoke, search and fetch tools over the MCP SSE transport.\n" +
		"Run `ada-mcp-tools start` to start the gateway; the other commands talk to a running gateway.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		apiClient = client.NewClient(gatewayURL, accessToken, &http.Client{Timeout: 30 * time.Second})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&gatewayURL,
		"gateway",
		gatewayURLFromEnv(),
		fmt.Sprintf("base URL of the gateway to talk to (env var %s)", GatewayURLEnvVar),
	)
	rootCmd.PersistentFlags().StringVar(
		&accessToken,
		"access-token",
		"",
		"bearer token sent to the gateway, for deployments behind an authenticating proxy",
	)

	defaultHelp = rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(groupedHelp)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func gatewayURLFromEnv() string {
	if v := os.Getenv(GatewayURLEnvVar); v != "" {
		return v
	}
	return GatewayURLDefault
}

// groupedHelp prints the root help with subcommands grouped and ordered by
// their "group" and "order" annotations. Subcommand help is left to cobra.
func groupedHelp(cmd *cobra.Command, args []string) {
	if cmd != rootCmd {
		defaultHelp(cmd, args)
		return
	}

	cmd.Println(cmd.Long)
	cmd.Println()
	cmd.Printf("Usage:\n  %s [command]\n", cmd.Name())

	groups := map[subCommandGroup][]*cobra.Command{}
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		g := subCommandGroup(c.Annotations["group"])
		if g == "" {
			g = subCommandGroupAdvanced
		}
		groups[g] = append(groups[g], c)
	}

	for _, g := range []subCommandGroup{subCommandGroupBasic, subCommandGroupAdvanced} {
		cmds := groups[g]
		if len(cmds) == 0 {
			continue
		}
		sort.SliceStable(cmds, func(i, j int) bool {
			return commandOrder(cmds[i]) < commandOrder(cmds[j])
		})

		cmd.Printf("\n%s Commands:\n", strings.ToUpper(string(g[:1]))+string(g[1:]))
		for _, c := range cmds {
			cmd.Printf("  %-12s %s\n", c.Name(), c.Short)
		}
	}

	cmd.Println()
	cmd.Println("Flags:")
	cmd.Print(cmd.LocalFlags().FlagUsages())
}

func commandOrder(c *cobra.Command) int {
	o, err := strconv.Atoi(c.Annotations["order"])
	if err != nil {
		return 1 << 30
	}
	return o
}
