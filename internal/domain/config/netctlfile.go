package config

import "github.com/trebuchet-org/netctl/internal/domain"

// NetctlFileConfig represents the full netctl.toml (or netctl.yaml) configuration file
type NetctlFileConfig struct {
	Defaults DefaultsConfig           `toml:"defaults" yaml:"defaults"`
	Networks map[string]NetworkConfig `toml:"networks" yaml:"networks"`
	Accounts AccountsConfig           `toml:"accounts" yaml:"accounts"`
}

// DefaultsConfig represents the [defaults] section
type DefaultsConfig struct {
	Network    string `toml:"network" yaml:"network"`
	GasLimit   any    `toml:"gas_limit" yaml:"gas_limit"` // integer, "auto" or bool
	NodeBinary string `toml:"node_binary" yaml:"node_binary"`
}

// NetworkConfig represents a [networks.<name>] section
type NetworkConfig struct {
	Host     string              `toml:"host" yaml:"host"`
	ChainID  uint64              `toml:"chain_id" yaml:"chain_id"`
	Explorer string              `toml:"explorer" yaml:"explorer"`
	GasLimit any                 `toml:"gas_limit" yaml:"gas_limit"`
	TestNode *domain.NodeOptions `toml:"test_node" yaml:"test_node"`
}

// AccountsConfig represents the [accounts] section
type AccountsConfig struct {
	Addresses []string `toml:"addresses" yaml:"addresses"`
}
