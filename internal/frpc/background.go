package frpc

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sandbox-tunnel/internal/console"
	coreerrors "sandbox-tunnel/internal/core/errors"
	corelog "sandbox-tunnel/internal/core/log"
	"sandbox-tunnel/internal/core/safe"
)

// LaunchRequest 后台启动所需的全部参数，按值传入任务
type LaunchRequest struct {
	Binary        string
	ConfigPath    string
	LogPath       string
	ServerAddress string
	LocalPort     int
	RemotePort    int
}

// Report 后台任务的一次性结果
type Report struct {
	Process  *Process // nil 表示没有启动任何进程
	Snapshot string   // 启动等待后日志文件的内容
	Endpoint string
	Err      error
}

// Started 子进程是否成功启动
func (r Report) Started() bool {
	return r.Process != nil
}

// Task 在后台 goroutine 中启动 frpc，不阻塞调用方
type Task struct {
	Launcher     *Launcher
	Output       *console.Output
	Logger       corelog.Logger
	StartupDelay time.Duration
}

// NewTask 创建后台启动任务
func NewTask(launcher *Launcher, out *console.Output, logger corelog.Logger, startupDelay time.Duration) *Task {
	if logger == nil {
		logger = corelog.Default()
	}
	return &Task{
		Launcher:     launcher,
		Output:       out,
		Logger:       logger,
		StartupDelay: startupDelay,
	}
}

// Start 同步启动子进程后立即返回，启动等待、日志快照和摘要在后台完成
// 返回时子进程已经 Start（或已确定启动失败），调用方随后退出也不影响 frpc
// 结果通过带缓冲的通道投递一次后关闭，调用方可以忽略该通道
// ctx 只用于提前结束启动等待
func (t *Task) Start(ctx context.Context, req LaunchRequest) <-chan Report {
	ch := make(chan Report, 1)

	proc, err := t.Launcher.Launch(req.Binary, req.ConfigPath, req.LogPath)
	if err != nil {
		t.Output.Error("frpc failed to start, tunnel unavailable: %v", err)
		ch <- Report{Err: err}
		close(ch)
		return ch
	}

	safe.GoWithCallback("frpc-launch", func() {
		ch <- t.follow(ctx, req, proc)
		close(ch)
	}, func(r interface{}) {
		t.Output.Error("Tunnel launch crashed: %v", r)
		ch <- Report{Process: proc, Err: coreerrors.Newf(coreerrors.CodeInternal, "launch task panic: %v", r)}
		close(ch)
	})
	return ch
}

// follow 等待启动延迟后输出日志快照与摘要
func (t *Task) follow(ctx context.Context, req LaunchRequest, proc *Process) Report {
	rep := Report{Process: proc}

	waitStartup(ctx, t.StartupDelay)

	snapshot, err := Snapshot(req.LogPath)
	if err != nil {
		t.Logger.WithError(err).Error("failed to read frpc log")
		t.Output.Error("Failed to read frpc log: %v", err)
		rep.Err = err
	} else {
		rep.Snapshot = snapshot
		t.Output.Raw(snapshot)
		if snapshot != "" && !strings.HasSuffix(snapshot, "\n") {
			t.Output.Raw("\n")
		}
	}

	rep.Endpoint = Endpoint(req.ServerAddress, req.RemotePort)
	t.Output.Success("frpc started (pid %d)", proc.PID)
	t.Output.KeyValue("Local port", strconv.Itoa(req.LocalPort))
	t.Output.KeyValue("Remote port", strconv.Itoa(req.RemotePort))
	t.Output.KeyValue("Public endpoint", rep.Endpoint)
	t.Output.KeyValue("Log file", req.LogPath)

	return rep
}

// waitStartup 固定等待，给子进程初始化时间；这不是就绪检测
func waitStartup(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// String 便于日志输出
func (r Report) String() string {
	if !r.Started() {
		return fmt.Sprintf("not started: %v", r.Err)
	}
	return fmt.Sprintf("pid %d, endpoint %s", r.Process.PID, r.Endpoint)
}
