package schema

// LogConfig contains logging configuration for the launcher itself
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug/info/warn/error
	Format string `yaml:"format" json:"format"` // text/json
	Output string `yaml:"output" json:"output"` // stderr/stdout/file
	File   string `yaml:"file" json:"file"`     // used when output is file
}
