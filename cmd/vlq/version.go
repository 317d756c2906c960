package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type cmdVersion struct {
	cmd *cobra.Command
}

func (c *cmdVersion) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "version"
	cmd.Short = "Print version information"
	cmd.Run = func(_ *cobra.Command, _ []string) {
		fmt.Printf("vlq - LogsQL query client\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
	}

	c.cmd = cmd
	return cmd
}
