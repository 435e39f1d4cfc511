package source

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandbox-tunnel/internal/config/schema"
	coreerrors "sandbox-tunnel/internal/core/errors"
)

func TestDefaultSource_LoadInto(t *testing.T) {
	cfg := &schema.Root{}
	require.NoError(t, NewDefaultSource().LoadInto(cfg))

	assert.Equal(t, DefaultServerAddress, cfg.Tunnel.ServerAddress)
	assert.True(t, cfg.Tunnel.SakuraMode)
	assert.False(t, cfg.Tunnel.LoginFailExit)
	assert.Equal(t, schema.ProxyTypeTCP, cfg.Proxy.Type)
	assert.Equal(t, 7860, cfg.Proxy.LocalPort)
	assert.Equal(t, 50000, cfg.Proxy.RemotePort)
	assert.Equal(t, 120*time.Second, cfg.Binary.DownloadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Binary.VersionTimeout)
	assert.Equal(t, 4*time.Second, cfg.Launch.StartupDelay)
	assert.Equal(t, "-c", cfg.Launch.ConfigFlag)
	assert.Equal(t, "-v", cfg.Binary.VersionFlag)
	assert.Equal(t, DefaultCandidates, cfg.Binary.Candidates)

	// 修改结果不应影响默认候选列表
	cfg.Binary.Candidates[0] = "/changed"
	assert.NotEqual(t, "/changed", DefaultCandidates[0])
}

func TestYAMLSource_LoadInto_NonExistent(t *testing.T) {
	cfg := &schema.Root{}
	s := NewYAMLSource("/nonexistent/path/config.yaml")

	assert.NoError(t, s.LoadInto(cfg), "non-existent file is skipped")
}

func TestYAMLSource_LoadInto_ValidFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "sandbox-tunnel.yaml")
	yamlContent := `
tunnel:
  server_addr: frp.example.org
  server_port: 7001
proxy:
  local_port: 8888
binary:
  candidates:
    - /opt/frpc
  download_timeout: 30s
launch:
  startup_delay: 1500ms
`
	require.NoError(t, os.WriteFile(configFile, []byte(yamlContent), 0644))

	cfg := &schema.Root{}
	require.NoError(t, NewDefaultSource().LoadInto(cfg))
	require.NoError(t, NewYAMLSource(configFile).LoadInto(cfg))

	assert.Equal(t, "frp.example.org", cfg.Tunnel.ServerAddress)
	assert.Equal(t, 7001, cfg.Tunnel.ServerPort)
	assert.Equal(t, 8888, cfg.Proxy.LocalPort)
	assert.Equal(t, DefaultRemotePort, cfg.Proxy.RemotePort, "unset keys keep defaults")
	assert.Equal(t, []string{"/opt/frpc"}, cfg.Binary.Candidates)
	assert.Equal(t, 30*time.Second, cfg.Binary.DownloadTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Launch.StartupDelay)
}

func TestYAMLSource_LoadInto_InvalidYAML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("tunnel: [unclosed"), 0644))

	err := NewYAMLSource(configFile).LoadInto(&schema.Root{})
	require.Error(t, err)
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeConfigError))
}

func TestEnvSource_LoadInto(t *testing.T) {
	t.Setenv("TEST_TUNNEL_SERVER_ADDR", "env.example.com")
	t.Setenv("TEST_TUNNEL_REMOTE_PORT", "51000")
	t.Setenv("TEST_TUNNEL_SAKURA_MODE", "false")
	t.Setenv("TEST_TUNNEL_BINARY_CANDIDATES", "/a/frpc, ,/b/frpc")
	t.Setenv("TEST_TUNNEL_STARTUP_DELAY", "2s")
	t.Setenv("TEST_TUNNEL_LOCAL_PORT", "not-a-number")

	cfg := &schema.Root{}
	require.NoError(t, NewDefaultSource().LoadInto(cfg))
	require.NoError(t, NewEnvSource("TEST_TUNNEL").LoadInto(cfg))

	assert.Equal(t, "env.example.com", cfg.Tunnel.ServerAddress)
	assert.Equal(t, 51000, cfg.Proxy.RemotePort)
	assert.False(t, cfg.Tunnel.SakuraMode)
	assert.Equal(t, []string{"/a/frpc", "/b/frpc"}, cfg.Binary.Candidates)
	assert.Equal(t, 2*time.Second, cfg.Launch.StartupDelay)
	assert.Equal(t, DefaultLocalPort, cfg.Proxy.LocalPort, "unparsable values are ignored")
}

func TestFlagSource_LoadInto(t *testing.T) {
	server := "flag.example.com"
	remote := 52000

	cfg := &schema.Root{}
	require.NoError(t, NewDefaultSource().LoadInto(cfg))
	require.NoError(t, NewFlagSource(Overrides{ServerAddress: &server, RemotePort: &remote}).LoadInto(cfg))

	assert.Equal(t, server, cfg.Tunnel.ServerAddress)
	assert.Equal(t, remote, cfg.Proxy.RemotePort)
	assert.Equal(t, DefaultLocalPort, cfg.Proxy.LocalPort)
}

func TestByPriority(t *testing.T) {
	sources := []Source{
		NewFlagSource(Overrides{}),
		NewEnvSource("X"),
		NewDefaultSource(),
		NewYAMLSource(),
	}
	sort.Sort(ByPriority(sources))

	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"defaults", "yaml", "env", "cli"}, names)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/frpc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "frpc"), got)

	got, err = ExpandPath("/tmp/../tmp/frpc")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/frpc", got)

	got, err = ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
