// Package frpc 负责 frpc 客户端的配置生成、二进制获取与后台启动
package frpc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/ini.v1"

	"sandbox-tunnel/internal/config/schema"
	coreerrors "sandbox-tunnel/internal/core/errors"
)

// commonSection frpc 全局配置段名
const commonSection = "common"

// ini.v1 的格式选项是包级全局变量，这里的设置对进程内所有 ini.v1 用户生效
// 本程序只有 Render 使用 ini.v1，有意保持全局设置
func init() {
	// frpc 样例配置使用 "key = value"，不做等号对齐
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

// ProxyRule 单条端口映射规则
type ProxyRule struct {
	Name       string
	Type       string
	LocalIP    string
	LocalPort  int
	RemotePort int
}

// TunnelConfig frpc 客户端配置，启动时构造一次，写入文件后不再修改
type TunnelConfig struct {
	ServerAddress string
	ServerPort    int
	User          string
	SakuraMode    bool
	LoginFailExit bool
	Proxy         ProxyRule
}

// FromSchema 从加载后的配置构造 TunnelConfig
func FromSchema(cfg *schema.Root) TunnelConfig {
	return TunnelConfig{
		ServerAddress: cfg.Tunnel.ServerAddress,
		ServerPort:    cfg.Tunnel.ServerPort,
		User:          cfg.Tunnel.User,
		SakuraMode:    cfg.Tunnel.SakuraMode,
		LoginFailExit: cfg.Tunnel.LoginFailExit,
		Proxy: ProxyRule{
			Name:       cfg.Proxy.Name,
			Type:       cfg.Proxy.Type,
			LocalIP:    cfg.Proxy.LocalIP,
			LocalPort:  cfg.Proxy.LocalPort,
			RemotePort: cfg.Proxy.RemotePort,
		},
	}
}

// PublicEndpoint 返回外部访问地址 server_addr:remote_port
func (c TunnelConfig) PublicEndpoint() string {
	return Endpoint(c.ServerAddress, c.Proxy.RemotePort)
}

// Endpoint 拼接 addr:port，不做 IPv6 方括号处理
func Endpoint(addr string, port int) string {
	return fmt.Sprintf("%s:%d", addr, port)
}

// Render 生成 frpc INI 配置文本
// 键的顺序固定，相同输入总是得到相同字节
func Render(c TunnelConfig) ([]byte, error) {
	f := ini.Empty()

	common, err := f.NewSection(commonSection)
	if err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeInternal, "failed to create common section")
	}
	commonKeys := [][2]string{
		{"user", c.User},
		{"sakura_mode", strconv.FormatBool(c.SakuraMode)},
		{"login_fail_exit", strconv.FormatBool(c.LoginFailExit)},
		{"server_addr", c.ServerAddress},
		{"server_port", strconv.Itoa(c.ServerPort)},
	}
	if err := addKeys(common, commonKeys); err != nil {
		return nil, err
	}

	proxy, err := f.NewSection(c.Proxy.Name)
	if err != nil {
		return nil, coreerrors.Wrapf(err, coreerrors.CodeInternal, "failed to create proxy section %q", c.Proxy.Name)
	}
	proxyKeys := [][2]string{
		{"type", c.Proxy.Type},
		{"local_ip", c.Proxy.LocalIP},
		{"local_port", strconv.Itoa(c.Proxy.LocalPort)},
		{"remote_port", strconv.Itoa(c.Proxy.RemotePort)},
	}
	if err := addKeys(proxy, proxyKeys); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeInternal, "failed to render config")
	}
	return buf.Bytes(), nil
}

func addKeys(sec *ini.Section, kvs [][2]string) error {
	for _, kv := range kvs {
		if _, err := sec.NewKey(kv[0], kv[1]); err != nil {
			return coreerrors.Wrapf(err, coreerrors.CodeInternal, "failed to set key %s", kv[0])
		}
	}
	return nil
}

// WriteFile 渲染配置并覆盖写入 path
// 文件系统错误原样包装返回，调用方应视为致命错误
func WriteFile(c TunnelConfig, path string) error {
	data, err := Render(c)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return coreerrors.Wrapf(err, coreerrors.CodeFileIO, "failed to create config directory %q", dir).
				WithDetail("path", path)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return coreerrors.Wrapf(err, coreerrors.CodeFileIO, "failed to write config file %q", path).
			WithDetail("path", path)
	}
	return nil
}
