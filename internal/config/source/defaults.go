package source

import (
	"time"

	"sandbox-tunnel/internal/config/schema"
)

// Default values for a notebook sandbox
const (
	DefaultServerAddress   = "example.com"
	DefaultServerPort      = 7000
	DefaultUser            = "00000000"
	DefaultProxyName       = "webui"
	DefaultLocalIP         = "127.0.0.1"
	DefaultLocalPort       = 7860
	DefaultRemotePort      = 50000
	DefaultWorkDir         = "/kaggle/working"
	DefaultDownloadURL     = "https://example.com/frpc/frpc_linux_amd64"
	DefaultDownloadTimeout = 120 * time.Second
	DefaultVersionTimeout  = 10 * time.Second
	DefaultStartupDelay    = 4 * time.Second
	DefaultConfigFlag      = "-c"
	DefaultVersionFlag     = "-v"
)

// DefaultCandidates lists where a pre-staged client binary may already live
var DefaultCandidates = []string{
	"/kaggle/input/frpc/frpc",
	"/kaggle/input/frp/frpc",
	"/content/drive/MyDrive/frpc",
	"./frpc",
}

// DefaultSource provides default configuration values
type DefaultSource struct{}

// NewDefaultSource creates a new DefaultSource
func NewDefaultSource() *DefaultSource {
	return &DefaultSource{}
}

// Name returns the source name
func (s *DefaultSource) Name() string {
	return "defaults"
}

// Priority returns the source priority
func (s *DefaultSource) Priority() int {
	return PriorityDefaults
}

// LoadInto loads default values into the configuration
func (s *DefaultSource) LoadInto(cfg *schema.Root) error {
	cfg.Tunnel.ServerAddress = DefaultServerAddress
	cfg.Tunnel.ServerPort = DefaultServerPort
	cfg.Tunnel.User = DefaultUser
	cfg.Tunnel.SakuraMode = true
	cfg.Tunnel.LoginFailExit = false

	cfg.Proxy.Name = DefaultProxyName
	cfg.Proxy.Type = schema.ProxyTypeTCP
	cfg.Proxy.LocalIP = DefaultLocalIP
	cfg.Proxy.LocalPort = DefaultLocalPort
	cfg.Proxy.RemotePort = DefaultRemotePort

	cfg.Binary.Candidates = append([]string(nil), DefaultCandidates...)
	cfg.Binary.WorkPath = DefaultWorkDir + "/frpc"
	cfg.Binary.DownloadURL = DefaultDownloadURL
	cfg.Binary.DownloadTimeout = DefaultDownloadTimeout
	cfg.Binary.VersionFlag = DefaultVersionFlag
	cfg.Binary.VersionTimeout = DefaultVersionTimeout

	cfg.Paths.ConfigFile = DefaultWorkDir + "/frpc.ini"
	cfg.Paths.LogFile = DefaultWorkDir + "/frpc.log"

	cfg.Launch.ConfigFlag = DefaultConfigFlag
	cfg.Launch.StartupDelay = DefaultStartupDelay

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Log.Output = "stderr"

	return nil
}
