package blockchain

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/netctl/internal/domain"
)

func newMockRPCServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string          `json:"method"`
			ID     json.RawMessage `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if result, ok := results[req.Method]; ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient() *ClientAdapter {
	return NewClientAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_ConnectAndQuery(t *testing.T) {
	server := newMockRPCServer(t, map[string]string{
		"eth_blockNumber": "0x2a",
		"eth_chainId":     "0x7a69",
	})
	c := newTestClient()
	ctx := context.Background()

	assert.False(t, c.IsConnected())
	require.NoError(t, c.Connect(ctx, server.URL))
	assert.True(t, c.IsConnected())
	assert.Equal(t, server.URL, c.Host())
	assert.NotNil(t, c.Eth())

	height, err := c.ChainHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), height)

	id, err := c.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), id)
}

func TestClient_ConnectTwice(t *testing.T) {
	server := newMockRPCServer(t, nil)
	c := newTestClient()
	require.NoError(t, c.Connect(context.Background(), server.URL))

	err := c.Connect(context.Background(), server.URL)
	assert.ErrorIs(t, err, domain.ErrAlreadyConnected)
	assert.True(t, c.IsConnected())
}

func TestClient_Disconnect(t *testing.T) {
	server := newMockRPCServer(t, map[string]string{"eth_blockNumber": "0x0"})
	c := newTestClient()

	// Safe when never connected
	c.Disconnect()

	require.NoError(t, c.Connect(context.Background(), server.URL))
	c.Disconnect()
	assert.False(t, c.IsConnected())
	assert.Nil(t, c.Eth())

	_, err := c.ChainHeight(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConnected)
	_, err = c.ChainID(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConnected)

	// Reconnect after disconnect
	require.NoError(t, c.Connect(context.Background(), server.URL))
	assert.True(t, c.IsConnected())
}

func TestClient_ConnectInvalidURL(t *testing.T) {
	c := newTestClient()
	err := c.Connect(context.Background(), "ftp://example.com")
	require.Error(t, err)
	assert.False(t, c.IsConnected())
}

func TestClient_QueryError(t *testing.T) {
	server := newMockRPCServer(t, nil)
	c := newTestClient()
	require.NoError(t, c.Connect(context.Background(), server.URL))

	_, err := c.ChainHeight(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get block number")
}

func TestClient_ConnectUnreachableHost(t *testing.T) {
	// Reserve a port, then release it so nothing listens there
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host := "http://" + listener.Addr().String()
	require.NoError(t, listener.Close())

	c := newTestClient()
	err = c.Connect(context.Background(), host)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node did not respond")
	assert.False(t, c.IsConnected())
	assert.Empty(t, c.Host())

	_, err = c.ChainHeight(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestClient_ConnectNonRPCServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	c := newTestClient()
	require.Error(t, c.Connect(context.Background(), server.URL))
	assert.False(t, c.IsConnected())
}
