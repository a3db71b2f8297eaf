package config

import (
	"time"

	"github.com/trebuchet-org/netctl/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	DefaultNetwork string
	DefaultGas     domain.GasLimit

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration
	LaunchTimeout  time.Duration
	NodeBinary     string

	// Config source tracking
	ConfigSource string // "netctl.toml", "netctl.yaml" or "" when none was found

	// Resolved configurations
	Networks map[string]*domain.NetworkConfig
	Accounts []string
}
