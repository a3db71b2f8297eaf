package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/netctl/internal/domain"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

// queryTimeout bounds single chain queries
const queryTimeout = 5 * time.Second

// ClientAdapter implements the ChainClient interface using go-ethereum's rpc client
type ClientAdapter struct {
	mu     sync.RWMutex
	rpc    *rpc.Client
	client *ethclient.Client
	host   string
	log    *slog.Logger
}

// NewClientAdapter creates a disconnected chain client
func NewClientAdapter(log *slog.Logger) *ClientAdapter {
	return &ClientAdapter{
		log: log.With("component", "ChainClient"),
	}
}

// Connect opens a JSON-RPC session to host and checks that the node answers.
// It fails if a session is already open; on failure no session is kept.
func (c *ClientAdapter) Connect(ctx context.Context, host string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rpc != nil {
		return fmt.Errorf("%w: transport session to %s is open", domain.ErrAlreadyConnected, c.host)
	}

	rpcClient, err := rpc.DialContext(ctx, host)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC %s: %w", host, err)
	}
	if err := ping(ctx, rpcClient); err != nil {
		rpcClient.Close()
		return fmt.Errorf("failed to connect to RPC %s: %w", host, err)
	}

	c.rpc = rpcClient
	c.client = ethclient.NewClient(rpcClient)
	c.host = host
	c.log.Debug("transport connected", "host", host)
	return nil
}

// Disconnect closes the session. It is safe to call when not connected.
func (c *ClientAdapter) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rpc == nil {
		return
	}
	c.rpc.Close()
	c.log.Debug("transport disconnected", "host", c.host)
	c.rpc = nil
	c.client = nil
	c.host = ""
}

// IsConnected reports whether a session is open
func (c *ClientAdapter) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rpc != nil
}

// Host returns the endpoint of the open session
func (c *ClientAdapter) Host() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.host
}

// ChainHeight returns the latest block number
func (c *ClientAdapter) ChainHeight(ctx context.Context) (uint64, error) {
	client, err := c.current()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	height, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return height, nil
}

// ChainID returns the chain ID reported by the node
func (c *ClientAdapter) ChainID(ctx context.Context) (uint64, error) {
	client, err := c.current()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return id.Uint64(), nil
}

// Eth returns the underlying ethclient, or nil when disconnected
func (c *ClientAdapter) Eth() *ethclient.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// ping issues web3_clientVersion. HTTP dials are lazy, so this is the first real
// contact with the node. A JSON-RPC error reply still proves the node is there.
func ping(ctx context.Context, client *rpc.Client) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var version string
	err := client.CallContext(ctx, &version, "web3_clientVersion")
	var rpcErr rpc.Error
	if err != nil && !errors.As(err, &rpcErr) {
		return fmt.Errorf("node did not respond: %w", err)
	}
	return nil
}

func (c *ClientAdapter) current() (*ethclient.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.client == nil {
		return nil, domain.ErrNotConnected
	}
	return c.client, nil
}

// Ensure the adapter implements the interface
var _ usecase.ChainClient = (*ClientAdapter)(nil)
