package usecase

import (
	"context"
	"io"

	"github.com/trebuchet-org/netctl/internal/domain"
)

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	// Resolve returns the config for name; "" selects the default network
	Resolve(ctx context.Context, name string) (*domain.NetworkConfig, error)
	List(ctx context.Context) []*domain.NetworkConfig
	DefaultNetwork() string
}

// ChainClient is the JSON-RPC session to a node endpoint
type ChainClient interface {
	Connect(ctx context.Context, host string) error
	Disconnect()
	IsConnected() bool
	ChainHeight(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (uint64, error)
}

// NodeManager owns the optional locally managed node process
type NodeManager interface {
	IsActive() bool
	IsOwned() bool
	Handle() *domain.NodeHandle
	Launch(ctx context.Context, opts *domain.NodeOptions) (*domain.NodeHandle, error)
	Attach(ctx context.Context, host string) (*domain.NodeHandle, error)
	// DetectActive reports whether a node answers JSON-RPC at host
	DetectActive(ctx context.Context, host string) bool
	Kill(ctx context.Context) error
	Reset(ctx context.Context) error
	// Restore re-adopts a handle persisted by an earlier invocation.
	// It returns false when the handle no longer refers to a live node.
	Restore(ctx context.Context, handle *domain.NodeHandle) bool
	// StreamLogs copies the owned node log to writer, tailing it when follow is set
	StreamLogs(ctx context.Context, writer io.Writer, follow bool) error
}

// AccountResetter resynchronizes cached account state after the chain changes
type AccountResetter interface {
	Reset(ctx context.Context) error
}

// SessionStore persists the session between CLI invocations
type SessionStore interface {
	Load(ctx context.Context) (*domain.SessionRecord, error)
	Save(ctx context.Context, record *domain.SessionRecord) error
	Delete(ctx context.Context) error
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// NetworkSelector lets the user pick a network interactively
type NetworkSelector interface {
	SelectNetwork(ctx context.Context, networks []*domain.NetworkConfig, prompt string) (*domain.NetworkConfig, error)
}
