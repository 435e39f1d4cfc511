// Package console 提供面向用户的控制台输出
// 笔记本单元格里只有这些消息可见，日志走 core/log
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	colorSuccess = color.New(color.FgGreen)
	colorError   = color.New(color.FgRed)
	colorWarning = color.New(color.FgYellow)
	colorInfo    = color.New(color.FgCyan)
	colorBold    = color.New(color.Bold)
)

// Output 提供线程安全的控制台输出，后台任务与主流程共用
type Output struct {
	mu      sync.Mutex
	w       io.Writer
	noColor bool
}

// NewOutput 创建输出工具，写入目标不是终端时自动关闭颜色
func NewOutput(w io.Writer) *Output {
	return &Output{w: w, noColor: !isTerminal(w)}
}

// NewStdout 创建写到标准输出的 Output
func NewStdout() *Output {
	return NewOutput(os.Stdout)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (o *Output) paint(c *color.Color, s string) string {
	if o.noColor {
		return s
	}
	return c.Sprint(s)
}

func (o *Output) line(prefix string, c *color.Color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, "%s %s\n", o.paint(c, prefix), msg)
}

// Success 输出成功消息
func (o *Output) Success(format string, args ...interface{}) {
	o.line("[ok]", colorSuccess, format, args...)
}

// Error 输出错误消息
func (o *Output) Error(format string, args ...interface{}) {
	o.line("[fail]", colorError, format, args...)
}

// Warning 输出警告消息
func (o *Output) Warning(format string, args ...interface{}) {
	o.line("[warn]", colorWarning, format, args...)
}

// Info 输出信息消息
func (o *Output) Info(format string, args ...interface{}) {
	o.line("[info]", colorInfo, format, args...)
}

// KeyValue 输出键值对
func (o *Output) KeyValue(key, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, "  %-17s %s\n", o.paint(colorBold, key+":"), value)
}

// Raw 原样写出内容，不追加换行或任何格式
func (o *Output) Raw(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	io.WriteString(o.w, s)
}
