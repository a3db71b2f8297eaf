package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/trebuchet-org/netctl/internal/domain"
)

// NetworkSession coordinates the connection to a network and the optional local node.
// It owns the connect/disconnect protocol and the active network descriptor.
type NetworkSession struct {
	mu       sync.Mutex
	active   *domain.ActiveNetwork
	resolver NetworkResolver
	client   ChainClient
	node     NodeManager
	accounts AccountResetter
	store    SessionStore
	progress ProgressSink
	log      *slog.Logger
}

// NewNetworkSession creates a new network session coordinator
func NewNetworkSession(
	active *domain.ActiveNetwork,
	resolver NetworkResolver,
	client ChainClient,
	node NodeManager,
	accounts AccountResetter,
	store SessionStore,
	progress ProgressSink,
	log *slog.Logger,
) *NetworkSession {
	return &NetworkSession{
		active:   active,
		resolver: resolver,
		client:   client,
		node:     node,
		accounts: accounts,
		store:    store,
		progress: progress,
		log:      log.With("component", "NetworkSession"),
	}
}

// ConnectParams contains parameters for connecting to a network
type ConnectParams struct {
	Network    string // "" selects the default network
	LaunchNode bool   // manage a local node when the network declares one
}

// ConnectResult contains the result of a connect
type ConnectResult struct {
	Network       *domain.NetworkConfig
	Node          *domain.NodeHandle
	Launched      bool
	Attached      bool
	AccountsReset bool
}

// Connect connects to a network. It is all-or-nothing: on any failure the active
// network is cleared, the transport is disconnected and the original error returned.
func (s *NetworkSession) Connect(ctx context.Context, params ConnectParams) (*ConnectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active.IsActive() {
		return nil, domain.AlreadyConnectedErr{Network: s.active.Name()}
	}

	result, err := s.connect(ctx, params)
	if err != nil {
		s.rollback()
		s.log.Debug("connect rolled back", "network", params.Network, "error", err)
		return nil, err
	}

	if err := s.save(ctx, result.Network.Name, result.Network.Host, result.Network.GasLimit); err != nil {
		// A node we just spawned would otherwise be orphaned with no record of its PID
		if result.Launched {
			if kerr := s.node.Kill(ctx); kerr != nil {
				s.log.Warn("failed to stop node after save failure", "error", kerr)
			}
		}
		s.rollback()
		return nil, err
	}

	s.active.Set(result.Network)
	s.log.Debug("connected", "network", result.Network.Name, "host", result.Network.Host,
		"launched", result.Launched, "attached", result.Attached)
	return result, nil
}

func (s *NetworkSession) connect(ctx context.Context, params ConnectParams) (*ConnectResult, error) {
	cfg, err := s.resolver.Resolve(ctx, params.Network)
	if err != nil {
		return nil, err
	}
	if cfg.Host == "" {
		return nil, domain.ConfigKeyErr{Network: cfg.Name, Key: "host"}
	}

	result := &ConnectResult{Network: cfg}

	if !cfg.ExpectsLocalNode() || !params.LaunchNode {
		if err := s.client.Connect(ctx, cfg.Host); err != nil {
			return nil, err
		}
		if err := s.accounts.Reset(ctx); err != nil {
			return nil, fmt.Errorf("failed to reset accounts: %w", err)
		}
		result.AccountsReset = true
		return result, nil
	}

	if s.node.IsActive() || s.node.DetectActive(ctx, cfg.Host) {
		if err := s.client.Connect(ctx, cfg.Host); err != nil {
			return nil, err
		}
		height, err := s.client.ChainHeight(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read chain height: %w", err)
		}
		if height != 0 {
			return nil, domain.NonZeroHeightErr{Height: height}
		}
		// A handle kept from an earlier session is reused as is
		if !s.node.IsActive() {
			if _, err := s.node.Attach(ctx, cfg.Host); err != nil {
				return nil, err
			}
			result.Attached = true
		}
	} else {
		if err := cfg.CheckNodePort(); err != nil {
			return nil, err
		}
		s.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "launch",
			Message: fmt.Sprintf("Launching local node on port %d...", cfg.TestNodeOptions.EffectivePort()),
			Spinner: true,
		})
		handle, err := s.node.Launch(ctx, cfg.TestNodeOptions)
		if err != nil {
			s.progress.OnProgress(ctx, ProgressEvent{Stage: "launch"})
			return nil, err
		}
		s.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "launch",
			Message: fmt.Sprintf("Local node ready at %s (PID %d)", handle.Host, handle.PID),
		})
		// The transport is opened only once the node answers
		if err := s.client.Connect(ctx, cfg.Host); err != nil {
			if kerr := s.node.Kill(ctx); kerr != nil {
				s.log.Warn("failed to stop node after transport failure", "error", kerr)
			}
			return nil, err
		}
		result.Launched = true
	}

	result.Node = s.node.Handle()
	return result, nil
}

// rollback returns to "no active network" with the transport closed
func (s *NetworkSession) rollback() {
	s.active.Clear()
	s.client.Disconnect()
}

// DisconnectParams contains parameters for disconnecting
type DisconnectParams struct {
	KillNode bool
}

// DisconnectResult contains the result of a disconnect
type DisconnectResult struct {
	Network   string
	NodeKept  bool
	NodeKill  bool
	NodeReset bool
}

// Disconnect disconnects from the active network. The active network is cleared before
// any teardown, so a failing kill or reset never leaves a half-connected session.
func (s *NetworkSession) Disconnect(ctx context.Context, params DisconnectParams) (*DisconnectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active.IsActive() {
		return nil, domain.ErrNotConnected
	}

	result := &DisconnectResult{Network: s.active.Name()}
	s.active.Clear()

	var teardownErr error
	if s.node.IsActive() {
		switch {
		case !params.KillNode:
			result.NodeKept = true
		case s.node.IsOwned():
			teardownErr = s.node.Kill(ctx)
			result.NodeKill = teardownErr == nil
		default:
			// Attached nodes belong to someone else; restore them instead of killing
			teardownErr = s.node.Reset(ctx)
			result.NodeReset = teardownErr == nil
		}
	}

	s.client.Disconnect()

	if err := s.save(ctx, "", "", domain.AutoGasLimit); err != nil {
		teardownErr = errors.Join(teardownErr, err)
	}

	s.log.Debug("disconnected", "network", result.Network, "killed", result.NodeKill, "reset", result.NodeReset)
	if teardownErr != nil {
		return result, teardownErr
	}
	return result, nil
}

// ShowActive returns the active network name. It reports nothing when the transport
// is down, even if a network is nominally active.
func (s *NetworkSession) ShowActive() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.client.IsConnected() || !s.active.IsActive() {
		return "", false
	}
	return s.active.Name(), true
}

// SetGasLimit validates and stores a new gas limit for the active network.
// A nil value, "auto" or a boolean literal select automatic gas. Nothing is changed on error.
func (s *NetworkSession) SetGasLimit(ctx context.Context, value *string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active.IsActive() {
		return "", domain.ErrNotConnected
	}

	limit, err := domain.ParseGasLimit(value)
	if err != nil {
		return "", err
	}

	previous := s.active.GasLimit()
	s.active.SetGasLimit(limit)
	if err := s.save(ctx, s.active.Name(), s.active.Host(), limit); err != nil {
		s.active.SetGasLimit(previous)
		return "", err
	}

	return gasLimitMessage(limit), nil
}

// GasLimit describes the gas limit of the active network
func (s *NetworkSession) GasLimit() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active.IsActive() {
		return "", domain.ErrNotConnected
	}
	return gasLimitMessage(s.active.GasLimit()), nil
}

// CurrentGasLimit returns the gas limit of the active network; automatic when none is active
func (s *NetworkSession) CurrentGasLimit() domain.GasLimit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.GasLimit()
}

func gasLimitMessage(limit domain.GasLimit) string {
	return fmt.Sprintf("Gas limit is set to %s", limit)
}

// SessionStatus is a snapshot of the session for display
type SessionStatus struct {
	Network     string
	Host        string
	GasLimit    domain.GasLimit
	Connected   bool
	ChainID     uint64
	BlockHeight uint64
	Node        *domain.NodeHandle
	NodeHealthy bool
}

// Status reports the session and node state. Chain queries are best effort.
func (s *NetworkSession) Status(ctx context.Context) *SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := &SessionStatus{
		Network:   s.active.Name(),
		Host:      s.active.Host(),
		GasLimit:  s.active.GasLimit(),
		Connected: s.client.IsConnected(),
		Node:      s.node.Handle(),
	}

	if status.Connected {
		if id, err := s.client.ChainID(ctx); err == nil {
			status.ChainID = id
		}
		if height, err := s.client.ChainHeight(ctx); err == nil {
			status.BlockHeight = height
		}
	}
	if status.Node != nil {
		status.NodeHealthy = s.node.DetectActive(ctx, status.Node.Host)
	}

	return status
}

// Restore rehydrates the session persisted by an earlier invocation. Stale records
// (dead owned node, unreachable host) are dropped rather than reported as connected.
func (s *NetworkSession) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active.IsActive() {
		return nil
	}

	record, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if record == nil {
		return nil
	}

	stale := false
	if record.Node != nil && !s.node.Restore(ctx, record.Node) {
		s.log.Debug("dropping stale node handle", "pid", record.Node.PID, "host", record.Node.Host)
		stale = true
	}

	if record.Network != "" {
		if err := s.client.Connect(ctx, record.Host); err != nil {
			s.log.Debug("dropping stale session", "network", record.Network, "error", err)
			s.rollback()
			return s.save(ctx, "", "", domain.AutoGasLimit)
		}
		s.active.Set(&domain.NetworkConfig{
			Name:     record.Network,
			Host:     record.Host,
			GasLimit: domain.FixedGasLimit(record.GasLimit),
		})
	}

	if stale {
		return s.save(ctx, s.active.Name(), s.active.Host(), s.active.GasLimit())
	}
	return nil
}

// save persists the session; an empty network with no node removes the record
func (s *NetworkSession) save(ctx context.Context, network, host string, gas domain.GasLimit) error {
	handle := s.node.Handle()
	if network == "" && handle == nil {
		if err := s.store.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	}

	record := &domain.SessionRecord{
		Network:     network,
		Host:        host,
		GasLimit:    gas.Value(),
		Node:        handle,
		ConnectedAt: time.Now(),
	}
	if err := s.store.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
