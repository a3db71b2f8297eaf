package domain

import (
	"fmt"
	"time"
)

// DefaultNodePort is used when node options leave the port unset
const DefaultNodePort = 8545

// NodeOptions are the startup parameters of a locally launched node
type NodeOptions struct {
	Port      int    `json:"port" toml:"port" yaml:"port"`
	Accounts  int    `json:"accounts,omitempty" toml:"accounts" yaml:"accounts"`
	Balance   uint64 `json:"balance,omitempty" toml:"balance" yaml:"balance"` // ether per account
	ChainID   uint64 `json:"chainId,omitempty" toml:"chain_id" yaml:"chain_id"`
	BlockTime int    `json:"blockTime,omitempty" toml:"block_time" yaml:"block_time"` // seconds, 0 = automine
	GasLimit  uint64 `json:"gasLimit,omitempty" toml:"gas_limit" yaml:"gas_limit"`
	Mnemonic  string `json:"mnemonic,omitempty" toml:"mnemonic" yaml:"mnemonic"`
	ForkURL   string `json:"forkUrl,omitempty" toml:"fork_url" yaml:"fork_url"`
	DataDir   string `json:"dataDir,omitempty" toml:"data_dir" yaml:"data_dir"` // state dump/load path
}

// Validate rejects options a node could not start with
func (o *NodeOptions) Validate() error {
	if o == nil {
		return fmt.Errorf("node options are nil")
	}
	if o.Port < 0 || o.Port > 65535 {
		return fmt.Errorf("port %d out of range", o.Port)
	}
	if o.Accounts < 0 {
		return fmt.Errorf("accounts must not be negative (got %d)", o.Accounts)
	}
	if o.BlockTime < 0 {
		return fmt.Errorf("block_time must not be negative (got %d)", o.BlockTime)
	}
	if o.GasLimit != 0 && o.GasLimit < MinGasLimit {
		return fmt.Errorf("gas_limit must be at least %d (got %d)", MinGasLimit, o.GasLimit)
	}
	return nil
}

// EffectivePort returns the configured port or the default
func (o *NodeOptions) EffectivePort() int {
	if o == nil || o.Port == 0 {
		return DefaultNodePort
	}
	return o.Port
}

// Ownership distinguishes nodes we spawned from nodes we only observe
type Ownership string

const (
	// Owned nodes were spawned by this tool; terminating them is our job
	Owned Ownership = "owned"
	// Attached nodes belong to someone else and must never be killed
	Attached Ownership = "attached"
)

// NodeHandle is the node process currently under observation
type NodeHandle struct {
	Ownership Ownership `json:"ownership"`
	Host      string    `json:"host"`
	PID       int       `json:"pid,omitempty"`
	PidFile   string    `json:"pidFile,omitempty"`
	LogFile   string    `json:"logFile,omitempty"`
	Baseline  string    `json:"baseline,omitempty"` // evm_snapshot id taken at attach
	StartedAt time.Time `json:"startedAt"`
}

// IsOwned reports whether the handle is the Owned variant
func (h *NodeHandle) IsOwned() bool {
	return h != nil && h.Ownership == Owned
}

// NodeStatus is a point-in-time view of the managed node
type NodeStatus struct {
	Active    bool      `json:"active"`
	Ownership Ownership `json:"ownership,omitempty"`
	PID       int       `json:"pid,omitempty"`
	Host      string    `json:"host,omitempty"`
	LogFile   string    `json:"logFile,omitempty"`
	Healthy   bool      `json:"healthy"`
}
