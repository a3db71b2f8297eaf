package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/netctl/internal/domain"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out  io.Writer
	json bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, json bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:  out,
		json: json,
	}
}

type networkOutput struct {
	Name      string              `json:"name"`
	Host      string              `json:"host"`
	ChainID   uint64              `json:"chainId,omitempty"`
	GasLimit  string              `json:"gasLimit"`
	Default   bool                `json:"default"`
	Active    bool                `json:"active"`
	LocalNode *domain.NodeOptions `json:"localNode,omitempty"`
}

// RenderNetworksList renders configured networks, marking the default and the active one
func (r *NetworksRenderer) RenderNetworksList(networks []*domain.NetworkConfig, defaultNetwork, active string) error {
	if r.json {
		return writeJSON(r.out, lo.Map(networks, func(n *domain.NetworkConfig, _ int) networkOutput {
			return networkOutput{
				Name:      n.Name,
				Host:      n.Host,
				ChainID:   n.ChainID,
				GasLimit:  n.GasLimit.String(),
				Default:   n.Name == defaultNetwork,
				Active:    n.Name == active,
				LocalNode: n.TestNodeOptions,
			}
		}))
	}

	if len(networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in netctl.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{
		PaddingLeft:      "  ",
		PaddingRight:     " ",
		MiddleHorizontal: "─",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	t.AppendHeader(table.Row{"Network", "Host", "Chain ID", "Gas Limit", "Local Node"})
	for _, n := range networks {
		name := n.Name
		switch {
		case n.Name == active:
			name = color.New(color.FgGreen, color.Bold).Sprint("● " + name)
		case n.Name == defaultNetwork:
			name = color.New(color.Bold).Sprint("  " + name)
		default:
			name = "  " + name
		}
		if n.Name == defaultNetwork {
			name += color.New(color.Faint).Sprint(" (default)")
		}

		chainID := "-"
		if n.ChainID != 0 {
			chainID = strconv.FormatUint(n.ChainID, 10)
		}

		localNode := ""
		if n.ExpectsLocalNode() {
			localNode = fmt.Sprintf("port %d", n.TestNodeOptions.EffectivePort())
		}

		t.AppendRow(table.Row{name, n.Host, chainID, n.GasLimit.String(), localNode})
	}

	t.Render()
	return nil
}
