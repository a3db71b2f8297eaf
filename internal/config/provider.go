package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/netctl/internal/domain/config"
)

const (
	// DataDirName is the per-project state directory
	DataDirName = ".netctl"
	// DefaultNodeBinary is the local node launched when none is configured
	DefaultNodeBinary = "anvil"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		LaunchTimeout:  v.GetDuration("launch_timeout"),
		NodeBinary:     v.GetString("node_binary"),
	}

	file, source, err := loadNetctlFile(projectRoot)
	if err != nil {
		return nil, err
	}
	cfg.ConfigSource = source

	networks, defaultGas, err := buildNetworks(file)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", source, err)
	}
	cfg.Networks = networks
	cfg.DefaultGas = defaultGas

	if file != nil {
		cfg.DefaultNetwork = file.Defaults.Network
		cfg.Accounts = file.Accounts.Addresses
		// Flags and env take precedence over the file
		if cfg.NodeBinary == "" {
			cfg.NodeBinary = file.Defaults.NodeBinary
		}
	}
	if cfg.NodeBinary == "" {
		cfg.NodeBinary = DefaultNodeBinary
	}
	if def := v.GetString("default_network"); def != "" {
		cfg.DefaultNetwork = def
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find a netctl config file
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if findConfigFile(dir) != "" {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a netctl project (netctl.toml not found)")
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Local overrides written by hand or by tooling
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix("NETCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("timeout", "5m")
	v.SetDefault("launch_timeout", "10s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if !f.Changed {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}
