package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for session operations
var (
	// ErrAlreadyConnected is returned when connecting while a network is active
	ErrAlreadyConnected = errors.New("already connected")

	// ErrNotConnected is returned when an operation needs an active network or transport
	ErrNotConnected = errors.New("not connected to any network")

	// ErrConfigKey is returned when a resolved network lacks a required key
	ErrConfigKey = errors.New("missing configuration key")

	// ErrUnknownNetwork is returned when a network name is not defined
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrNonZeroHeight is returned when attaching to a local node that is past genesis
	ErrNonZeroHeight = errors.New("local node has a block height > 0")

	// ErrLaunch is returned when a local node could not be launched
	ErrLaunch = errors.New("failed to launch local node")

	// ErrAttach is returned when an external node could not be attached
	ErrAttach = errors.New("failed to attach to local node")

	// ErrNotOwned is returned when killing a node this process did not spawn
	ErrNotOwned = errors.New("node is not owned by this session")

	// ErrResetUnsupported is returned when a node cannot revert its state
	ErrResetUnsupported = errors.New("node does not support state reset")

	// ErrInvalidGasLimit is returned when a gas limit cannot be parsed
	ErrInvalidGasLimit = errors.New("invalid gas limit")

	// ErrGasLimitTooLow is returned when a gas limit is below the minimum
	ErrGasLimitTooLow = errors.New("gas limit too low")
)

// AlreadyConnectedErr reports the network that is currently active.
type AlreadyConnectedErr struct {
	Network string
}

func (e AlreadyConnectedErr) Error() string {
	if e.Network == "" {
		return "already connected"
	}
	return fmt.Sprintf("already connected to network '%s'", e.Network)
}

func (e AlreadyConnectedErr) Is(target error) bool { return target == ErrAlreadyConnected }

// ConfigKeyErr reports a missing key in a network configuration.
type ConfigKeyErr struct {
	Network string
	Key     string
}

func (e ConfigKeyErr) Error() string {
	if e.Network == "" {
		return fmt.Sprintf("network not specified and no %s configured", e.Key)
	}
	return fmt.Sprintf("no %s configured for network '%s'", e.Key, e.Network)
}

func (e ConfigKeyErr) Is(target error) bool { return target == ErrConfigKey }

// UnknownNetworkErr is returned by network resolution, with close matches when available.
type UnknownNetworkErr struct {
	Name        string
	Suggestions []string
}

func (e UnknownNetworkErr) Error() string {
	msg := fmt.Sprintf("unknown network '%s'", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e UnknownNetworkErr) Is(target error) bool { return target == ErrUnknownNetwork }

// NonZeroHeightErr carries the height reported by the node.
type NonZeroHeightErr struct {
	Height uint64
}

func (e NonZeroHeightErr) Error() string {
	return fmt.Sprintf("local node has a block height > 0 (height %d)", e.Height)
}

func (e NonZeroHeightErr) Is(target error) bool { return target == ErrNonZeroHeight }

// LaunchErr wraps the reason a node launch failed.
type LaunchErr struct {
	Reason string
	Err    error
}

func (e LaunchErr) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to launch local node: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to launch local node: %s", e.Reason)
}

func (e LaunchErr) Is(target error) bool { return target == ErrLaunch }
func (e LaunchErr) Unwrap() error        { return e.Err }

// AttachErr wraps the reason an attach failed.
type AttachErr struct {
	Host   string
	Reason string
	Err    error
}

func (e AttachErr) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to attach to %s: %s: %v", e.Host, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to attach to %s: %s", e.Host, e.Reason)
}

func (e AttachErr) Is(target error) bool { return target == ErrAttach }
func (e AttachErr) Unwrap() error        { return e.Err }

// InvalidGasLimitErr carries the rejected input.
type InvalidGasLimitErr struct {
	Value string
}

func (e InvalidGasLimitErr) Error() string {
	return fmt.Sprintf("invalid gas limit '%s'", e.Value)
}

func (e InvalidGasLimitErr) Is(target error) bool { return target == ErrInvalidGasLimit }

// GasLimitTooLowErr carries the rejected value.
type GasLimitTooLowErr struct {
	Value int64
}

func (e GasLimitTooLowErr) Error() string {
	return fmt.Sprintf("minimum gas limit is %d (got %d)", MinGasLimit, e.Value)
}

func (e GasLimitTooLowErr) Is(target error) bool { return target == ErrGasLimitTooLow }
