package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/netctl/internal/domain/config"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

// ChainSource exposes the live client, or nil when disconnected
type ChainSource interface {
	Eth() *ethclient.Client
}

// Cache tracks nonces of the configured accounts. Its contents describe one
// chain, so it must be reset whenever the session moves to another chain.
type Cache struct {
	mu        sync.RWMutex
	addresses []common.Address
	nonces    map[common.Address]uint64
	source    ChainSource
	log       *slog.Logger
}

// NewCache creates a cache over the addresses listed in the config
func NewCache(cfg *config.RuntimeConfig, source ChainSource, log *slog.Logger) (*Cache, error) {
	addresses := make([]common.Address, 0, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("invalid account address '%s'", a)
		}
		addresses = append(addresses, common.HexToAddress(a))
	}

	return &Cache{
		addresses: addresses,
		nonces:    make(map[common.Address]uint64),
		source:    source,
		log:       log.With("component", "AccountCache"),
	}, nil
}

// Addresses returns the tracked accounts
func (c *Cache) Addresses() []common.Address {
	return c.addresses
}

// Nonce returns the cached nonce for addr
func (c *Cache) Nonce(addr common.Address) (uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.nonces[addr]
	return n, ok
}

// Reset drops cached state and reloads nonces from the connected chain.
// With no connection the cache is only cleared.
func (c *Cache) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nonces = make(map[common.Address]uint64, len(c.addresses))

	client := c.source.Eth()
	if client == nil {
		return nil
	}

	for _, addr := range c.addresses {
		nonce, err := client.PendingNonceAt(ctx, addr)
		if err != nil {
			return fmt.Errorf("failed to read nonce of %s: %w", addr.Hex(), err)
		}
		c.nonces[addr] = nonce
	}
	c.log.Debug("accounts reset", "count", len(c.addresses))
	return nil
}

// Ensure Cache implements AccountResetter
var _ usecase.AccountResetter = (*Cache)(nil)
