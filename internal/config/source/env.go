package source

import (
	"os"
	"strconv"
	"strings"
	"time"

	"sandbox-tunnel/internal/config/schema"
)

// EnvPrefix is the default environment variable prefix
const EnvPrefix = "SANDBOX_TUNNEL"

// EnvSource loads configuration from environment variables
type EnvSource struct {
	prefix string
}

// NewEnvSource creates a new EnvSource with the specified prefix
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{
		prefix: prefix,
	}
}

// Name returns the source name
func (s *EnvSource) Name() string {
	return "env"
}

// Priority returns the source priority
func (s *EnvSource) Priority() int {
	return PriorityEnv
}

// LoadInto loads environment variables into the config structure
func (s *EnvSource) LoadInto(cfg *schema.Root) error {
	// Tunnel
	s.loadString("SERVER_ADDR", &cfg.Tunnel.ServerAddress)
	s.loadInt("SERVER_PORT", &cfg.Tunnel.ServerPort)
	s.loadString("USER", &cfg.Tunnel.User)
	s.loadBool("SAKURA_MODE", &cfg.Tunnel.SakuraMode)
	s.loadBool("LOGIN_FAIL_EXIT", &cfg.Tunnel.LoginFailExit)

	// Proxy
	s.loadString("PROXY_NAME", &cfg.Proxy.Name)
	s.loadString("LOCAL_IP", &cfg.Proxy.LocalIP)
	s.loadInt("LOCAL_PORT", &cfg.Proxy.LocalPort)
	s.loadInt("REMOTE_PORT", &cfg.Proxy.RemotePort)

	// Binary
	s.loadStringSlice("BINARY_CANDIDATES", &cfg.Binary.Candidates)
	s.loadString("BINARY_WORK_PATH", &cfg.Binary.WorkPath)
	s.loadString("BINARY_DOWNLOAD_URL", &cfg.Binary.DownloadURL)
	s.loadDuration("BINARY_DOWNLOAD_TIMEOUT", &cfg.Binary.DownloadTimeout)
	s.loadDuration("BINARY_VERSION_TIMEOUT", &cfg.Binary.VersionTimeout)

	// Paths
	s.loadString("CONFIG_FILE", &cfg.Paths.ConfigFile)
	s.loadString("LOG_FILE", &cfg.Paths.LogFile)

	// Launch
	s.loadDuration("STARTUP_DELAY", &cfg.Launch.StartupDelay)

	// Log
	s.loadString("LOG_LEVEL", &cfg.Log.Level)
	s.loadString("LOG_FORMAT", &cfg.Log.Format)
	s.loadString("LOG_OUTPUT", &cfg.Log.Output)

	return nil
}

// getEnv gets environment variable with the configured prefix
func (s *EnvSource) getEnv(key string) (string, bool) {
	prefixedKey := s.prefix + "_" + key
	if v := os.Getenv(prefixedKey); v != "" {
		return v, true
	}
	return "", false
}

func (s *EnvSource) loadString(key string, target *string) {
	if v, ok := s.getEnv(key); ok {
		*target = v
	}
}

func (s *EnvSource) loadBool(key string, target *bool) {
	if v, ok := s.getEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

func (s *EnvSource) loadInt(key string, target *int) {
	if v, ok := s.getEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			*target = i
		}
	}
}

func (s *EnvSource) loadDuration(key string, target *time.Duration) {
	if v, ok := s.getEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*target = d
		}
	}
}

func (s *EnvSource) loadStringSlice(key string, target *[]string) {
	if v, ok := s.getEnv(key); ok {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			*target = result
		}
	}
}
