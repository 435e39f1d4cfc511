package schema

// Proxy types understood by the tunnel client
const (
	ProxyTypeTCP = "tcp"
)

// TunnelConfig contains the [common] section of the client config
type TunnelConfig struct {
	ServerAddress string `yaml:"server_addr" json:"server_addr"`
	ServerPort    int    `yaml:"server_port" json:"server_port"`
	User          string `yaml:"user" json:"user"` // placeholder id, no credential handling
	SakuraMode    bool   `yaml:"sakura_mode" json:"sakura_mode"`
	LoginFailExit bool   `yaml:"login_fail_exit" json:"login_fail_exit"`
}

// ProxyConfig describes the single exposed port
type ProxyConfig struct {
	Name       string `yaml:"name" json:"name"`
	Type       string `yaml:"type" json:"type"`
	LocalIP    string `yaml:"local_ip" json:"local_ip"`
	LocalPort  int    `yaml:"local_port" json:"local_port"`
	RemotePort int    `yaml:"remote_port" json:"remote_port"`
}
