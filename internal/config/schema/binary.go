package schema

import "time"

// BinaryConfig describes where the tunnel client binary comes from
type BinaryConfig struct {
	// Candidates are probed in order, the first existing file wins
	Candidates      []string      `yaml:"candidates" json:"candidates"`
	WorkPath        string        `yaml:"work_path" json:"work_path"`
	DownloadURL     string        `yaml:"download_url" json:"download_url"`
	DownloadTimeout time.Duration `yaml:"download_timeout" json:"download_timeout"`
	VersionFlag     string        `yaml:"version_flag" json:"version_flag"`
	VersionTimeout  time.Duration `yaml:"version_timeout" json:"version_timeout"`
}
