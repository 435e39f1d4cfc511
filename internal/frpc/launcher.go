package frpc

import (
	"os"
	"os/exec"
	"time"

	coreerrors "sandbox-tunnel/internal/core/errors"
	corelog "sandbox-tunnel/internal/core/log"
)

// Process 已启动的 frpc 子进程
// 启动后不再跟踪：不 Wait、不发信号、不清理
type Process struct {
	PID       int
	Path      string
	Args      []string
	LogPath   string
	StartedAt time.Time
}

// Launcher 负责启动 frpc 子进程
type Launcher struct {
	ConfigFlag string
	Logger     corelog.Logger
}

// NewLauncher 创建 Launcher
func NewLauncher(configFlag string, logger corelog.Logger) *Launcher {
	if logger == nil {
		logger = corelog.Default()
	}
	return &Launcher{ConfigFlag: configFlag, Logger: logger}
}

// Launch 以 <binary> -c <configPath> 启动 frpc，stdout/stderr 都写入 logPath（截断）
// 启动失败返回 nil Process 和 SPAWN_ERROR，调用方按"隧道不可用"处理
func (l *Launcher) Launch(binary, configPath, logPath string) (*Process, error) {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, coreerrors.Wrapf(err, coreerrors.CodeSpawn, "failed to open log file %q", logPath).
			WithDetail("log", logPath)
	}
	// 子进程持有自己的文件描述符副本
	defer logFile.Close()

	args := []string{l.ConfigFlag, configPath}
	cmd := exec.Command(binary, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		l.Logger.WithError(err).WithField("binary", binary).Error("failed to start frpc")
		return nil, coreerrors.Wrapf(err, coreerrors.CodeSpawn, "failed to start %s", binary).
			WithDetail("binary", binary)
	}

	proc := &Process{
		PID:       cmd.Process.Pid,
		Path:      binary,
		Args:      args,
		LogPath:   logPath,
		StartedAt: time.Now(),
	}
	l.Logger.WithFields(map[string]interface{}{
		"pid":    proc.PID,
		"config": configPath,
		"log":    logPath,
	}).Info("frpc started")

	if err := cmd.Process.Release(); err != nil {
		l.Logger.WithError(err).Debug("failed to release process handle")
	}
	return proc, nil
}

// Snapshot 读取日志文件当前的全部内容，原样返回
func Snapshot(logPath string) (string, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return "", coreerrors.Wrapf(err, coreerrors.CodeFileIO, "failed to read log file %q", logPath).
			WithDetail("log", logPath)
	}
	return string(data), nil
}
