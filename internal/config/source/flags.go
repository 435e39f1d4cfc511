package source

import (
	"sandbox-tunnel/internal/config/schema"
)

// Overrides holds values given on the command line
// A nil field means the flag was not set
type Overrides struct {
	ServerAddress *string
	ServerPort    *int
	User          *string
	LocalPort     *int
	RemotePort    *int
	LogLevel      *string
}

// FlagSource applies command line overrides on top of every other source
type FlagSource struct {
	o Overrides
}

// NewFlagSource creates a new FlagSource
func NewFlagSource(o Overrides) *FlagSource {
	return &FlagSource{o: o}
}

// Name returns the source name
func (s *FlagSource) Name() string {
	return "cli"
}

// Priority returns the source priority
func (s *FlagSource) Priority() int {
	return PriorityCLI
}

// LoadInto copies the set overrides into the configuration
func (s *FlagSource) LoadInto(cfg *schema.Root) error {
	if s.o.ServerAddress != nil {
		cfg.Tunnel.ServerAddress = *s.o.ServerAddress
	}
	if s.o.ServerPort != nil {
		cfg.Tunnel.ServerPort = *s.o.ServerPort
	}
	if s.o.User != nil {
		cfg.Tunnel.User = *s.o.User
	}
	if s.o.LocalPort != nil {
		cfg.Proxy.LocalPort = *s.o.LocalPort
	}
	if s.o.RemotePort != nil {
		cfg.Proxy.RemotePort = *s.o.RemotePort
	}
	if s.o.LogLevel != nil {
		cfg.Log.Level = *s.o.LogLevel
	}
	return nil
}
