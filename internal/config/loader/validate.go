package loader

import (
	"sandbox-tunnel/internal/config/schema"
	coreerrors "sandbox-tunnel/internal/core/errors"
)

// Validate checks the fields the tunnel client cannot run without
// Values are otherwise written to the client config as-is
func Validate(cfg *schema.Root) error {
	if cfg.Tunnel.ServerAddress == "" {
		return coreerrors.New(coreerrors.CodeConfigError, "tunnel.server_addr is required")
	}
	if err := validatePort("tunnel.server_port", cfg.Tunnel.ServerPort); err != nil {
		return err
	}
	if cfg.Proxy.Name == "" {
		return coreerrors.New(coreerrors.CodeConfigError, "proxy.name is required")
	}
	if cfg.Proxy.Name == "common" {
		return coreerrors.New(coreerrors.CodeConfigError, "proxy.name must not be \"common\"")
	}
	if cfg.Proxy.Type != schema.ProxyTypeTCP {
		return coreerrors.Newf(coreerrors.CodeConfigError, "unsupported proxy type %q", cfg.Proxy.Type)
	}
	if err := validatePort("proxy.local_port", cfg.Proxy.LocalPort); err != nil {
		return err
	}
	if err := validatePort("proxy.remote_port", cfg.Proxy.RemotePort); err != nil {
		return err
	}
	if cfg.Paths.ConfigFile == "" || cfg.Paths.LogFile == "" {
		return coreerrors.New(coreerrors.CodeConfigError, "paths.config_file and paths.log_file are required")
	}
	if cfg.Binary.WorkPath == "" {
		return coreerrors.New(coreerrors.CodeConfigError, "binary.work_path is required")
	}
	if cfg.Binary.DownloadTimeout < 0 || cfg.Binary.VersionTimeout < 0 || cfg.Launch.StartupDelay < 0 {
		return coreerrors.New(coreerrors.CodeConfigError, "durations must not be negative")
	}
	return nil
}

func validatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return coreerrors.Newf(coreerrors.CodeConfigError, "%s out of range: %d", field, port).
			WithDetail("field", field)
	}
	return nil
}
