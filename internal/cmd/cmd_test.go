package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "sandbox-tunnel/internal/core/errors"
	corelog "sandbox-tunnel/internal/core/log"
	"sandbox-tunnel/internal/frpc"
)

// lockedBuffer 后台任务在命令返回后仍可能写输出
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// writeConfig 写一份不会下载、所有路径都在临时目录下的配置
func writeConfig(t *testing.T, candidates ...string) (configFile, dir string) {
	t.Helper()
	dir = t.TempDir()
	configFile = filepath.Join(dir, "sandbox-tunnel.yaml")
	list := "[]"
	if len(candidates) > 0 {
		list = "\n"
		for _, c := range candidates {
			list += "    - " + c + "\n"
		}
	}
	content := `
tunnel:
  server_addr: frps.test
binary:
  candidates: ` + list + `
  work_path: ` + filepath.Join(dir, "frpc") + `
  download_url: ""
paths:
  config_file: ` + filepath.Join(dir, "frpc.ini") + `
  log_file: ` + filepath.Join(dir, "frpc.log") + `
launch:
  startup_delay: 10ms
log:
  level: error
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	return configFile, dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, err := executeBuffered(t, args...)
	return stdout.String(), err
}

func executeBuffered(t *testing.T, args ...string) (*lockedBuffer, error) {
	t.Helper()
	stdout, stderr := &lockedBuffer{}, &lockedBuffer{}
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	return stdout, root.Execute()
}

func TestRender_FlagsOverrideFile(t *testing.T) {
	configFile, _ := writeConfig(t)

	out, err := execute(t, "render", "--config", configFile, "--remote-port", "50001", "--user", "12345678")
	require.NoError(t, err)

	assert.Contains(t, out, "[common]")
	assert.Contains(t, out, "server_addr = frps.test")
	assert.Contains(t, out, "user = 12345678")
	assert.Contains(t, out, "[webui]")
	assert.Contains(t, out, "remote_port = 50001")
	assert.Contains(t, out, "local_port = 7860")
}

func TestRender_InvalidPort(t *testing.T) {
	configFile, _ := writeConfig(t)

	_, err := execute(t, "render", "--config", configFile, "--local-port", "70000")
	assert.Error(t, err)
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := execute(t, "render", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestUp_MissingBinaryIsNotAnError(t *testing.T) {
	configFile, dir := writeConfig(t)

	out, err := execute(t, "up", "--config", configFile)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "frpc.ini"))
	assert.Contains(t, out, "[warn] frpc binary not found")
	assert.Contains(t, out, "[fail] frpc failed to start")
}

func TestUp_DetachSpawnsBeforeReturning(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	scripts := t.TempDir()
	marker := filepath.Join(scripts, "STARTED")
	fake := filepath.Join(scripts, "frpc")
	script := "#!/bin/sh\nif [ \"$1\" = \"-v\" ]; then echo 0.51.0; exit 0; fi\ntouch " + marker + "\n"
	require.NoError(t, os.WriteFile(fake, []byte(script), 0755))

	configFile, dir := writeConfig(t, fake)

	stdout, err := executeBuffered(t, "up", "--detach", "--config", configFile)
	require.NoError(t, err)

	// 日志文件由启动过程创建，命令返回时必须已经存在
	assert.FileExists(t, filepath.Join(dir, "frpc.log"))
	assert.Contains(t, stdout.String(), "frpc runs in the background")
	require.Eventually(t, func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "frpc was not spawned")
}

func TestUp_DetachReportsSpawnFailure(t *testing.T) {
	configFile, _ := writeConfig(t)

	out, err := execute(t, "up", "--detach", "--config", configFile)
	require.NoError(t, err)

	assert.Contains(t, out, "[fail] frpc failed to start")
	assert.NotContains(t, out, "frpc runs in the background")
}

func TestRoot_DefaultsToUp(t *testing.T) {
	configFile, dir := writeConfig(t)

	out, err := execute(t, "--config", configFile)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "frpc.ini"))
	assert.Contains(t, out, "[fail] frpc failed to start")
}

// recordingT 收集 TestLogger 的输出
type recordingT struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingT) Log(args ...interface{}) {
	r.Logf("%s", fmt.Sprint(args...))
}

func (r *recordingT) Logf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingT) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

func TestLogReport_SeverityFollowsErrorClass(t *testing.T) {
	prev := corelog.Default()
	t.Cleanup(func() { corelog.SetDefault(prev) })
	rec := &recordingT{}
	corelog.SetDefault(corelog.NewTestLogger(rec))

	logReport(frpc.Report{Err: coreerrors.New(coreerrors.CodeSpawn, "no binary")})
	assert.True(t, strings.HasPrefix(rec.last(), "[WARN]"), rec.last())

	logReport(frpc.Report{Err: coreerrors.New(coreerrors.CodeInternal, "panic")})
	assert.True(t, strings.HasPrefix(rec.last(), "[ERROR]"), rec.last())

	logReport(frpc.Report{Process: &frpc.Process{PID: 1}, Endpoint: "example.com:50000"})
	assert.True(t, strings.HasPrefix(rec.last(), "[DEBUG]"), rec.last())
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sandbox-tunnel v")
}
