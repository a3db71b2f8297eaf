package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/netctl/internal/domain"
	"github.com/trebuchet-org/netctl/internal/domain/config"
)

func newTestSessionStore(t *testing.T) *SessionStoreAdapter {
	t.Helper()
	cfg := &config.RuntimeConfig{
		DataDir: t.TempDir(),
	}
	return NewSessionStoreAdapter(cfg)
}

func TestSessionStore_LoadEmpty(t *testing.T) {
	store := newTestSessionStore(t)

	record, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	record := &domain.SessionRecord{
		Network:  "development",
		Host:     "http://127.0.0.1:8545",
		GasLimit: 6721975,
		Node: &domain.NodeHandle{
			Ownership: domain.Owned,
			Host:      "http://127.0.0.1:8545",
			PID:       12345,
			PidFile:   "/tmp/node.pid",
			LogFile:   "/tmp/node.log",
			StartedAt: now,
		},
		ConnectedAt: now,
	}

	require.NoError(t, store.Save(ctx, record))
	assert.FileExists(t, store.Path())
	assert.NoFileExists(t, store.Path()+".tmp")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "development", loaded.Network)
	assert.Equal(t, uint64(6721975), loaded.GasLimit)
	require.NotNil(t, loaded.Node)
	assert.Equal(t, domain.Owned, loaded.Node.Ownership)
	assert.Equal(t, 12345, loaded.Node.PID)
	assert.True(t, loaded.Node.StartedAt.Equal(now))
	assert.True(t, loaded.ConnectedAt.Equal(now))
}

func TestSessionStore_NodeOnlyRecord(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	record := &domain.SessionRecord{
		Node: &domain.NodeHandle{
			Ownership: domain.Attached,
			Host:      "http://127.0.0.1:8545",
			Baseline:  "0x1",
		},
	}
	require.NoError(t, store.Save(ctx, record))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Network)
	assert.Equal(t, domain.Attached, loaded.Node.Ownership)
	assert.Equal(t, "0x1", loaded.Node.Baseline)
}

func TestSessionStore_Delete(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.SessionRecord{Network: "mainnet"}))
	require.NoError(t, store.Delete(ctx))
	assert.NoFileExists(t, store.Path())

	// Deleting again is fine
	require.NoError(t, store.Delete(ctx))
}

func TestSessionStore_CorruptFile(t *testing.T) {
	store := newTestSessionStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse session file")
}
