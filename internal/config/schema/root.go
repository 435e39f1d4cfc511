// Package schema defines configuration structure types
package schema

import "time"

// Root is the top-level configuration structure
type Root struct {
	Tunnel TunnelConfig `yaml:"tunnel" json:"tunnel"`
	Proxy  ProxyConfig  `yaml:"proxy" json:"proxy"`
	Binary BinaryConfig `yaml:"binary" json:"binary"`
	Paths  PathsConfig  `yaml:"paths" json:"paths"`
	Launch LaunchConfig `yaml:"launch" json:"launch"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// PathsConfig contains the on-disk locations shared with the tunnel client
type PathsConfig struct {
	ConfigFile string `yaml:"config_file" json:"config_file"` // rendered frpc INI
	LogFile    string `yaml:"log_file" json:"log_file"`       // frpc stdout/stderr
}

// LaunchConfig contains process launch settings
type LaunchConfig struct {
	ConfigFlag   string        `yaml:"config_flag" json:"config_flag"`
	StartupDelay time.Duration `yaml:"startup_delay" json:"startup_delay"` // wait before log snapshot
}
