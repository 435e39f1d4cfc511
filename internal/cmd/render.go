package cmd

import (
	"github.com/spf13/cobra"

	"sandbox-tunnel/internal/frpc"
)

func newRenderCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the frpc INI config without writing or starting anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			data, err := frpc.Render(frpc.FromSchema(cfg))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
