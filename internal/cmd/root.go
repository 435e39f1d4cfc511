// Package cmd 提供 sandbox-tunnel 的命令框架
package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"sandbox-tunnel/internal/config/loader"
	"sandbox-tunnel/internal/config/schema"
	"sandbox-tunnel/internal/config/source"
	corelog "sandbox-tunnel/internal/core/log"
	"sandbox-tunnel/internal/version"
)

// rootOptions 全局标志
type rootOptions struct {
	configFile string
	serverAddr string
	serverPort int
	user       string
	localPort  int
	remotePort int
	logLevel   string
	detach     bool
}

// NewRootCommand 创建根命令，不带子命令时等同于 up
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "sandbox-tunnel",
		Short: "Expose a sandbox port through an frpc reverse tunnel",
		Long: `sandbox-tunnel provisions an frpc client inside a notebook sandbox so that one
local TCP port is reachable as server_addr:remote_port.

Quick Start:
  sandbox-tunnel                       Render config, fetch frpc and start it
  sandbox-tunnel up --remote-port 50001
  sandbox-tunnel render                Print the frpc INI config`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Config file path")
	flags.StringVarP(&opts.serverAddr, "server", "s", "", "frps server address")
	flags.IntVar(&opts.serverPort, "server-port", 0, "frps server port")
	flags.StringVar(&opts.user, "user", "", "frps user id")
	flags.IntVar(&opts.localPort, "local-port", 0, "Local port to expose")
	flags.IntVar(&opts.remotePort, "remote-port", 0, "Remote port on the server")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug/info/warn/error")

	up := newUpCommand(opts)
	rootCmd.Flags().AddFlagSet(up.Flags())
	rootCmd.RunE = up.RunE

	rootCmd.AddCommand(up)
	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute 执行根命令
func Execute() {
	// 全局 panic recovery
	defer func() {
		if r := recover(); r != nil {
			corelog.Errorf("FATAL: main goroutine panic recovered: %v", r)
			fmt.Fprintf(os.Stderr, "\nPANIC: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", string(debug.Stack()))
			os.Exit(2)
		}
	}()

	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// overrides 只收集命令行上显式给出的标志
func (o *rootOptions) overrides(cmd *cobra.Command) source.Overrides {
	var ov source.Overrides
	flags := cmd.Flags()
	if flags.Changed("server") {
		ov.ServerAddress = &o.serverAddr
	}
	if flags.Changed("server-port") {
		ov.ServerPort = &o.serverPort
	}
	if flags.Changed("user") {
		ov.User = &o.user
	}
	if flags.Changed("local-port") {
		ov.LocalPort = &o.localPort
	}
	if flags.Changed("remote-port") {
		ov.RemotePort = &o.remotePort
	}
	if flags.Changed("log-level") {
		ov.LogLevel = &o.logLevel
	}
	return ov
}

// loadConfig 加载配置并初始化日志
// 返回的 closer 可能为 nil
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*schema.Root, io.Closer, error) {
	cfg, err := loader.Load(o.configFile, o.overrides(cmd))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	closer, err := corelog.Init(corelog.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, closer, nil
}
