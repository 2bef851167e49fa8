package main

import (
	"os"

	"github.com/ada-mcp/ada-mcp-tools/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
