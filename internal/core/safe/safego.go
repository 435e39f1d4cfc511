// Package safe 启动带 panic 恢复的 Goroutine
package safe

import (
	"runtime/debug"
	"sync/atomic"

	corelog "sandbox-tunnel/internal/core/log"
)

var (
	activeCount atomic.Int64
	totalCount  atomic.Int64
	panicCount  atomic.Int64
)

// Stats Goroutine 统计信息
type Stats struct {
	Active     int64 // 当前活跃数量
	Total      int64 // 累计创建数量
	PanicCount int64 // panic 次数
}

// GetStats 获取统计信息
func GetStats() Stats {
	return Stats{
		Active:     activeCount.Load(),
		Total:      totalCount.Load(),
		PanicCount: panicCount.Load(),
	}
}

// Go 安全启动 Goroutine，name 用于日志标识
func Go(name string, fn func()) {
	GoWithCallback(name, fn, nil)
}

// GoWithCallback 带回调的安全 Goroutine
// onPanic 在 fn panic 并记录日志后调用
func GoWithCallback(name string, fn func(), onPanic func(recovered interface{})) {
	totalCount.Add(1)
	activeCount.Add(1)

	go func() {
		defer func() {
			activeCount.Add(-1)
			if r := recover(); r != nil {
				panicCount.Add(1)
				corelog.Errorf("SafeGo[%s]: panic recovered: %v\n%s", name, r, debug.Stack())
				if onPanic != nil {
					onPanic(r)
				}
			}
		}()
		fn()
	}()
}
