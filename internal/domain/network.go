package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MinGasLimit is the intrinsic gas of a plain transfer; lower limits are rejected.
const MinGasLimit uint64 = 21000

// GasLimit is either an explicit limit or the automatic sentinel (zero value).
type GasLimit struct {
	value uint64
}

// AutoGasLimit lets the node estimate gas per transaction.
var AutoGasLimit = GasLimit{}

// FixedGasLimit returns an explicit gas limit. It does not validate the minimum.
func FixedGasLimit(v uint64) GasLimit {
	return GasLimit{value: v}
}

// IsAuto reports whether the limit is the automatic sentinel.
func (g GasLimit) IsAuto() bool { return g.value == 0 }

// Value returns the explicit limit, or 0 when automatic.
func (g GasLimit) Value() uint64 { return g.value }

func (g GasLimit) String() string {
	if g.IsAuto() {
		return "automatic"
	}
	return strconv.FormatUint(g.value, 10)
}

// IsAutoGasLiteral reports whether s is one of the spellings that select automatic gas.
func IsAutoGasLiteral(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "automatic", "none", "null", "true", "false":
		return true
	}
	return false
}

// ParseGasLimit parses a user supplied gas limit. A nil input selects automatic.
func ParseGasLimit(input *string) (GasLimit, error) {
	if input == nil || IsAutoGasLiteral(*input) {
		return AutoGasLimit, nil
	}
	raw := strings.ReplaceAll(strings.TrimSpace(*input), "_", "")
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		u, uerr := strconv.ParseUint(raw, 10, 64)
		if uerr != nil {
			return GasLimit{}, InvalidGasLimitErr{Value: *input}
		}
		return FixedGasLimit(u), nil
	}
	if v < int64(MinGasLimit) {
		return GasLimit{}, GasLimitTooLowErr{Value: v}
	}
	return FixedGasLimit(uint64(v)), nil
}

// NetworkConfig is a resolved network definition. It is read-only for the session.
type NetworkConfig struct {
	Name     string
	Host     string
	ChainID  uint64
	Explorer string
	GasLimit GasLimit

	// TestNodeOptions is set when the network expects a locally managed node.
	TestNodeOptions *NodeOptions
}

// ExpectsLocalNode reports whether the network carries local node options.
func (n *NetworkConfig) ExpectsLocalNode() bool {
	return n != nil && n.TestNodeOptions != nil
}

// HostPort returns the TCP port named by host, using the scheme default when the
// URL has no explicit port. ok is false when host is not a parseable URL.
func HostPort(host string) (port int, ok bool) {
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return 0, false
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		return n, err == nil
	}
	switch u.Scheme {
	case "http", "ws":
		return 80, true
	case "https", "wss":
		return 443, true
	}
	return 0, false
}

// CheckNodePort rejects local node options whose port differs from the host's.
// A node launched there would never be reached through the network's host.
func (n *NetworkConfig) CheckNodePort() error {
	if !n.ExpectsLocalNode() {
		return nil
	}
	port, ok := HostPort(n.Host)
	if !ok {
		return nil
	}
	if nodePort := n.TestNodeOptions.EffectivePort(); nodePort != port {
		return LaunchErr{Reason: fmt.Sprintf("test_node port %d does not match host %s", nodePort, n.Host)}
	}
	return nil
}
