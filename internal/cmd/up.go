package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sandbox-tunnel/internal/console"
	coreerrors "sandbox-tunnel/internal/core/errors"
	corelog "sandbox-tunnel/internal/core/log"
	"sandbox-tunnel/internal/frpc"
	"sandbox-tunnel/internal/provision"
)

func newUpCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Render config, resolve frpc and start it in the background",
		Long: `Write the frpc config, find or download the frpc binary and start it.
frpc keeps running after this command returns; its output goes to the log file.

Without --detach the command waits for the startup summary.

Example:
  sandbox-tunnel up --local-port 7860 --remote-port 50000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.detach, "detach", "d", false, "Return without waiting for the startup summary")
	return cmd
}

func runUp(cmd *cobra.Command, opts *rootOptions) error {
	cfg, closer, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	out := console.NewOutput(cmd.OutOrStdout())
	reports, err := provision.New(out, corelog.Default()).Run(ctx, cfg)
	if err != nil {
		return err
	}
	if opts.detach {
		// 子进程在 Run 返回前已经启动，退出不会影响它；启动失败时报告已在通道里
		select {
		case rep := <-reports:
			logReport(rep)
		default:
			out.Info("frpc runs in the background, log: %s", cfg.Paths.LogFile)
		}
		return nil
	}

	// 启动失败已经输出给用户，不影响退出码
	logReport(<-reports)
	return nil
}

func logReport(rep frpc.Report) {
	switch {
	case rep.Err == nil:
		corelog.Debugf("launch report: %s", rep)
	case coreerrors.IsFatal(rep.Err):
		corelog.WithError(rep.Err).Errorf("launch failed: %s", rep)
	default:
		corelog.WithError(rep.Err).Warnf("tunnel unavailable: %s", rep)
	}
}
