package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/netctl/internal/domain"
)

const sampleToml = `[defaults]
network = "development"
gas_limit = "auto"

[networks.development]
host = "http://127.0.0.1:8545"
chain_id = 31337
gas_limit = 6_721_975

[networks.development.test_node]
port = 8545
accounts = 10
balance = 100
mnemonic = "${TEST_MNEMONIC}"

[networks.sepolia]
host = "${SEPOLIA_RPC_URL}"
chain_id = 11155111
explorer = "https://sepolia.etherscan.io"

[accounts]
addresses = ["0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"]
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadNetctlFile_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "netctl.toml", sampleToml)
	writeFile(t, dir, ".env", "SEPOLIA_RPC_URL=https://rpc.sepolia.org\nTEST_MNEMONIC=test junk\n")
	t.Setenv("SEPOLIA_RPC_URL", "")
	t.Setenv("TEST_MNEMONIC", "")
	os.Unsetenv("SEPOLIA_RPC_URL")
	os.Unsetenv("TEST_MNEMONIC")

	file, source, err := loadNetctlFile(dir)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "netctl.toml", source)
	assert.Equal(t, "development", file.Defaults.Network)
	assert.Len(t, file.Networks, 2)

	networks, defaultGas, err := buildNetworks(file)
	require.NoError(t, err)
	assert.True(t, defaultGas.IsAuto())

	dev := networks["development"]
	require.NotNil(t, dev)
	assert.Equal(t, "development", dev.Name)
	assert.Equal(t, uint64(6721975), dev.GasLimit.Value())
	assert.True(t, dev.ExpectsLocalNode())
	assert.Equal(t, 10, dev.TestNodeOptions.Accounts)
	assert.Equal(t, "test junk", dev.TestNodeOptions.Mnemonic)

	sepolia := networks["sepolia"]
	require.NotNil(t, sepolia)
	assert.Equal(t, "https://rpc.sepolia.org", sepolia.Host)
	assert.True(t, sepolia.GasLimit.IsAuto())
	assert.False(t, sepolia.ExpectsLocalNode())
	assert.Equal(t, "https://sepolia.etherscan.io", sepolia.Explorer)
}

func TestLoadNetctlFile_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "netctl.yaml", `defaults:
  network: local
  gas_limit: 8000000
networks:
  local:
    host: http://127.0.0.1:8546
    test_node:
      port: 8546
      chain_id: 1337
  mainnet:
    host: https://eth.llamarpc.com
    gas_limit: false
`)

	file, source, err := loadNetctlFile(dir)
	require.NoError(t, err)
	assert.Equal(t, "netctl.yaml", source)

	networks, defaultGas, err := buildNetworks(file)
	require.NoError(t, err)
	assert.Equal(t, uint64(8000000), defaultGas.Value())
	assert.Equal(t, uint64(8000000), networks["local"].GasLimit.Value())
	assert.Equal(t, 8546, networks["local"].TestNodeOptions.EffectivePort())
	assert.Equal(t, uint64(1337), networks["local"].TestNodeOptions.ChainID)
	assert.True(t, networks["mainnet"].GasLimit.IsAuto())
}

func TestBuildNetworks_NodePortFollowsHost(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "netctl.toml", `[networks.ganache]
host = "http://127.0.0.1:7545"

[networks.ganache.test_node]
accounts = 5

[networks.pinned]
host = "http://127.0.0.1:7545"

[networks.pinned.test_node]
port = 9545
`)

	file, _, err := loadNetctlFile(dir)
	require.NoError(t, err)
	networks, _, err := buildNetworks(file)
	require.NoError(t, err)

	assert.Equal(t, 7545, networks["ganache"].TestNodeOptions.EffectivePort())
	assert.NoError(t, networks["ganache"].CheckNodePort())

	// An explicit port is kept and flagged against the host
	assert.Equal(t, 9545, networks["pinned"].TestNodeOptions.Port)
	assert.ErrorIs(t, networks["pinned"].CheckNodePort(), domain.ErrLaunch)
}

func TestLoadNetctlFile_Missing(t *testing.T) {
	file, source, err := loadNetctlFile(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, file)
	assert.Empty(t, source)

	networks, gas, err := buildNetworks(nil)
	require.NoError(t, err)
	assert.Empty(t, networks)
	assert.True(t, gas.IsAuto())
}

func TestLoadNetctlFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "netctl.toml", "[networks.dev\nhost = ")

	_, _, err := loadNetctlFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse netctl.toml")
}

func TestGasLimitFromValue(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		auto    bool
		limit   uint64
		wantErr error
	}{
		{name: "nil", value: nil, auto: true},
		{name: "bool", value: true, auto: true},
		{name: "auto string", value: "automatic", auto: true},
		{name: "int64", value: int64(30000000), limit: 30000000},
		{name: "int", value: 21000, limit: 21000},
		{name: "numeric string", value: "6_721_975", limit: 6721975},
		{name: "whole float", value: float64(50000), limit: 50000},
		{name: "fractional float", value: 50000.5, wantErr: domain.ErrInvalidGasLimit},
		{name: "too low", value: int64(20999), wantErr: domain.ErrGasLimitTooLow},
		{name: "garbage", value: "lots", wantErr: domain.ErrInvalidGasLimit},
		{name: "unsupported type", value: []string{"x"}, wantErr: domain.ErrInvalidGasLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gasLimitFromValue(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.auto, got.IsAuto())
			if !tt.auto {
				assert.Equal(t, tt.limit, got.Value())
			}
		})
	}
}

func TestBuildNetworks_InvalidGas(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "netctl.toml", `[networks.dev]
host = "http://127.0.0.1:8545"
gas_limit = 100
`)
	file, _, err := loadNetctlFile(dir)
	require.NoError(t, err)

	_, _, err = buildNetworks(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "networks.dev.gas_limit")
	assert.ErrorIs(t, err, domain.ErrGasLimitTooLow)
}
