package config

import (
	"context"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/netctl/internal/domain"
	"github.com/trebuchet-org/netctl/internal/domain/config"
)

// maxSuggestions caps "did you mean" hints on unknown networks
const maxSuggestions = 3

// NetworkResolver resolves network names to configurations
type NetworkResolver struct {
	networks       map[string]*domain.NetworkConfig
	defaultNetwork string
	defaultGas     domain.GasLimit
}

// NewNetworkResolver creates a resolver over the networks in the runtime config
func NewNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	networks := cfg.Networks
	if networks == nil {
		networks = make(map[string]*domain.NetworkConfig)
	}
	return &NetworkResolver{
		networks:       networks,
		defaultNetwork: cfg.DefaultNetwork,
		defaultGas:     cfg.DefaultGas,
	}
}

// DefaultNetwork returns the configured default network name
func (r *NetworkResolver) DefaultNetwork() string {
	return r.defaultNetwork
}

// Resolve returns the network configuration for name. An empty name selects the default
// network; an http(s) or ws(s) URL yields an ad-hoc network with the default gas limit
// and no local node options.
func (r *NetworkResolver) Resolve(_ context.Context, name string) (*domain.NetworkConfig, error) {
	if name == "" {
		name = r.defaultNetwork
	}
	if name == "" {
		return nil, domain.ConfigKeyErr{Key: "defaults.network"}
	}

	if network, ok := r.networks[name]; ok {
		return network, nil
	}

	// Case-insensitive name lookup
	for key, network := range r.networks {
		if strings.EqualFold(key, name) {
			return network, nil
		}
	}

	if isRPCURL(name) {
		return &domain.NetworkConfig{
			Name:     "custom",
			Host:     name,
			GasLimit: r.defaultGas,
		}, nil
	}

	return nil, domain.UnknownNetworkErr{
		Name:        name,
		Suggestions: r.suggest(name),
	}
}

// Names returns configured network names, sorted
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(r.networks)
	sort.Strings(names)
	return names
}

// List returns configured networks sorted by name
func (r *NetworkResolver) List(_ context.Context) []*domain.NetworkConfig {
	return lo.Map(r.Names(), func(name string, _ int) *domain.NetworkConfig {
		return r.networks[name]
	})
}

// suggest returns the closest configured names for a mistyped network
func (r *NetworkResolver) suggest(name string) []string {
	matches := fuzzy.Find(strings.ToLower(name), lo.Map(r.Names(), func(n string, _ int) string {
		return strings.ToLower(n)
	}))
	names := r.Names()
	suggestions := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, names[m.Index])
	}
	return suggestions
}

func isRPCURL(s string) bool {
	for _, prefix := range []string{"http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
