package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/netctl/internal/domain"
	"github.com/trebuchet-org/netctl/internal/domain/config"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectNetwork asks the user to pick one of networks
func (s *SelectorAdapter) SelectNetwork(_ context.Context, networks []*domain.NetworkConfig, prompt string) (*domain.NetworkConfig, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}
	if len(networks) == 0 {
		return nil, fmt.Errorf("no networks configured")
	}
	if len(networks) == 1 {
		return networks[0], nil
	}

	options := formatNetworkOptions(networks, s.config.DefaultNetwork)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(plainNetworkOptions(networks)),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return networks[index], nil
}

// formatNetworkOptions renders "name (host) [local node]"
func formatNetworkOptions(networks []*domain.NetworkConfig, defaultNetwork string) []string {
	options := make([]string, len(networks))
	for i, network := range networks {
		name := color.New(color.FgWhite, color.Bold).Sprint(network.Name)
		host := color.New(color.FgBlue).Sprint(network.Host)

		var tags []string
		if network.Name == defaultNetwork {
			tags = append(tags, "default")
		}
		if network.ExpectsLocalNode() {
			tags = append(tags, "local node")
		}

		if len(tags) > 0 {
			tagStr := color.New(color.FgYellow).Sprintf("[%s]", strings.Join(tags, ", "))
			options[i] = fmt.Sprintf("%s %s (%s)", name, tagStr, host)
		} else {
			options[i] = fmt.Sprintf("%s (%s)", name, host)
		}
	}
	return options
}

// plainNetworkOptions is the uncolored search text for each network
func plainNetworkOptions(networks []*domain.NetworkConfig) []string {
	items := make([]string, len(networks))
	for i, network := range networks {
		items[i] = network.Name + " " + network.Host
	}
	return items
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.NetworkSelector = (*SelectorAdapter)(nil)
