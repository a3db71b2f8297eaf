package domain

import "time"

// ActiveNetwork is the single source of truth for which network, if any, is active.
// The zero value is not usable; build it with NewActiveNetwork.
type ActiveNetwork struct {
	name     *string
	host     string
	gasLimit GasLimit
}

// NewActiveNetwork returns a descriptor in the "no active network" state
func NewActiveNetwork() *ActiveNetwork {
	return &ActiveNetwork{}
}

// Set marks cfg as the active network
func (a *ActiveNetwork) Set(cfg *NetworkConfig) {
	name := cfg.Name
	a.name = &name
	a.host = cfg.Host
	a.gasLimit = cfg.GasLimit
}

// Clear resets to "no active network"
func (a *ActiveNetwork) Clear() {
	a.name = nil
	a.host = ""
	a.gasLimit = AutoGasLimit
}

// IsActive reports whether a network is active
func (a *ActiveNetwork) IsActive() bool {
	return a.name != nil
}

// Name returns the active network name, or "" when none is active
func (a *ActiveNetwork) Name() string {
	if a.name == nil {
		return ""
	}
	return *a.name
}

// Host returns the endpoint of the active network
func (a *ActiveNetwork) Host() string { return a.host }

// GasLimit returns the effective gas limit of the active network
func (a *ActiveNetwork) GasLimit() GasLimit { return a.gasLimit }

// SetGasLimit replaces the gas limit of the active network
func (a *ActiveNetwork) SetGasLimit(g GasLimit) { a.gasLimit = g }

// SessionRecord is the persisted form of a session, shared across CLI invocations
type SessionRecord struct {
	Network     string      `json:"network"`
	Host        string      `json:"host"`
	GasLimit    uint64      `json:"gasLimit,omitempty"` // 0 = automatic
	Node        *NodeHandle `json:"node,omitempty"`
	ConnectedAt time.Time   `json:"connectedAt"`
}
