package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/netctl/internal/domain"
	"github.com/trebuchet-org/netctl/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// Config file names, in lookup order
var configFileNames = []string{"netctl.toml", "netctl.yaml", "netctl.yml"}

// findConfigFile returns the first config file present in dir, or "" if none.
func findConfigFile(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadEnvFiles loads .env and .env.local so ${VAR} references in hosts resolve
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadNetctlFile loads and parses the project's config file.
// Returns (nil, "", nil) when no config file exists.
func loadNetctlFile(projectRoot string) (*config.NetctlFileConfig, string, error) {
	path := findConfigFile(projectRoot)
	if path == "" {
		return nil, "", nil
	}

	loadEnvFiles(projectRoot)

	var cfg config.NetctlFileConfig
	source := filepath.Base(path)
	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", source, err)
		}
	default:
		data, err := os.ReadFile(path) //nolint:gosec // project config path
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", source, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", source, err)
		}
	}

	return &cfg, source, nil
}

// buildNetworks converts file sections into resolved network configs.
// Hosts are env-expanded; gas limits fall back to the file default.
func buildNetworks(file *config.NetctlFileConfig) (map[string]*domain.NetworkConfig, domain.GasLimit, error) {
	networks := make(map[string]*domain.NetworkConfig)
	if file == nil {
		return networks, domain.AutoGasLimit, nil
	}

	defaultGas, err := gasLimitFromValue(file.Defaults.GasLimit)
	if err != nil {
		return nil, domain.AutoGasLimit, fmt.Errorf("defaults.gas_limit: %w", err)
	}

	for name, section := range file.Networks {
		gas := defaultGas
		if section.GasLimit != nil {
			gas, err = gasLimitFromValue(section.GasLimit)
			if err != nil {
				return nil, domain.AutoGasLimit, fmt.Errorf("networks.%s.gas_limit: %w", name, err)
			}
		}

		host := strings.TrimSpace(os.ExpandEnv(section.Host))

		var opts *domain.NodeOptions
		if section.TestNode != nil {
			o := *section.TestNode
			o.ForkURL = os.ExpandEnv(o.ForkURL)
			o.DataDir = os.ExpandEnv(o.DataDir)
			o.Mnemonic = os.ExpandEnv(o.Mnemonic)
			// The node listens where the host points unless a port is given
			if o.Port == 0 {
				if port, ok := domain.HostPort(host); ok {
					o.Port = port
				}
			}
			opts = &o
		}

		networks[name] = &domain.NetworkConfig{
			Name:            name,
			Host:            host,
			ChainID:         section.ChainID,
			Explorer:        section.Explorer,
			GasLimit:        gas,
			TestNodeOptions: opts,
		}
	}

	return networks, defaultGas, nil
}

// gasLimitFromValue converts a decoded TOML/YAML value into a gas limit
func gasLimitFromValue(v any) (domain.GasLimit, error) {
	switch val := v.(type) {
	case nil, bool:
		return domain.AutoGasLimit, nil
	case string:
		return domain.ParseGasLimit(&val)
	case int:
		return gasLimitFromInt(int64(val))
	case int64:
		return gasLimitFromInt(val)
	case uint64:
		s := fmt.Sprintf("%d", val)
		return domain.ParseGasLimit(&s)
	case float64:
		if val != float64(int64(val)) {
			return domain.AutoGasLimit, domain.InvalidGasLimitErr{Value: fmt.Sprintf("%v", val)}
		}
		return gasLimitFromInt(int64(val))
	default:
		return domain.AutoGasLimit, domain.InvalidGasLimitErr{Value: fmt.Sprintf("%v", val)}
	}
}

func gasLimitFromInt(v int64) (domain.GasLimit, error) {
	if v < int64(domain.MinGasLimit) {
		return domain.AutoGasLimit, domain.GasLimitTooLowErr{Value: v}
	}
	return domain.FixedGasLimit(uint64(v)), nil
}
