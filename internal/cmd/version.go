package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sandbox-tunnel/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sandbox-tunnel %s\n", version.GetVersion())
		},
	}
}
