// Package provision 串联配置写入、二进制获取与后台启动
package provision

import (
	"context"

	"github.com/google/uuid"

	"sandbox-tunnel/internal/config/schema"
	"sandbox-tunnel/internal/console"
	coreerrors "sandbox-tunnel/internal/core/errors"
	corelog "sandbox-tunnel/internal/core/log"
	"sandbox-tunnel/internal/frpc"
)

// Provisioner 一次完整的隧道客户端部署
type Provisioner struct {
	Output *console.Output
	Logger corelog.Logger

	// Resolver 为空时按配置创建
	Resolver *frpc.Resolver
}

// New 创建 Provisioner
func New(out *console.Output, logger corelog.Logger) *Provisioner {
	if out == nil {
		out = console.NewStdout()
	}
	if logger == nil {
		logger = corelog.Default()
	}
	return &Provisioner{Output: out, Logger: logger}
}

// Run 写配置、获取 frpc、启动后台任务后立即返回
// 只有写配置失败会返回错误；二进制缺失时照常启动，由后台任务报告启动失败
func (p *Provisioner) Run(ctx context.Context, cfg *schema.Root) (<-chan frpc.Report, error) {
	logger := p.Logger.WithField("run", uuid.NewString())

	tunnel := frpc.FromSchema(cfg)
	if err := frpc.WriteFile(tunnel, cfg.Paths.ConfigFile); err != nil {
		logger.WithError(err).Error("failed to write frpc config")
		return nil, err
	}
	logger.WithField("path", cfg.Paths.ConfigFile).Info("frpc config written")

	resolver := p.Resolver
	if resolver == nil {
		resolver = frpc.NewResolver(cfg.Binary, logger)
	}
	res := resolver.Resolve(ctx)

	binary := res.Path
	switch {
	case !res.Found():
		binary = cfg.Binary.WorkPath
		if coreerrors.IsRecoverable(res.Err) {
			p.Output.Warning("frpc binary not found: %v", res.Err)
		} else {
			p.Output.Error("frpc binary lookup failed: %v", res.Err)
		}
	case res.Version != "":
		p.Output.Info("frpc %s (%s)", res.Version, res.Source)
	default:
		p.Output.Info("frpc ready (%s)", res.Source)
	}

	task := frpc.NewTask(
		frpc.NewLauncher(cfg.Launch.ConfigFlag, logger),
		p.Output,
		logger,
		cfg.Launch.StartupDelay,
	)
	return task.Start(ctx, frpc.LaunchRequest{
		Binary:        binary,
		ConfigPath:    cfg.Paths.ConfigFile,
		LogPath:       cfg.Paths.LogFile,
		ServerAddress: tunnel.ServerAddress,
		LocalPort:     tunnel.Proxy.LocalPort,
		RemotePort:    tunnel.Proxy.RemotePort,
	}), nil
}
