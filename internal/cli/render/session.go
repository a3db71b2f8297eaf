package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/netctl/internal/domain"
	"github.com/trebuchet-org/netctl/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SessionRenderer renders connect, disconnect and status results
type SessionRenderer struct {
	out  io.Writer
	json bool
}

// NewSessionRenderer creates a new session renderer
func NewSessionRenderer(out io.Writer, json bool) *SessionRenderer {
	return &SessionRenderer{
		out:  out,
		json: json,
	}
}

type connectOutput struct {
	Network       string             `json:"network"`
	Host          string             `json:"host"`
	GasLimit      string             `json:"gasLimit"`
	Launched      bool               `json:"launched"`
	Attached      bool               `json:"attached"`
	AccountsReset bool               `json:"accountsReset"`
	Node          *domain.NodeHandle `json:"node,omitempty"`
}

// RenderConnect renders the result of a connect
func (r *SessionRenderer) RenderConnect(result *usecase.ConnectResult) error {
	if r.json {
		return writeJSON(r.out, connectOutput{
			Network:       result.Network.Name,
			Host:          result.Network.Host,
			GasLimit:      result.Network.GasLimit.String(),
			Launched:      result.Launched,
			Attached:      result.Attached,
			AccountsReset: result.AccountsReset,
			Node:          result.Node,
		})
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Connected to '%s'", result.Network.Name)))
	color.New(color.FgBlue).Fprintf(r.out, "🌐 RPC URL: %s\n", result.Network.Host)

	switch {
	case result.Launched && result.Node != nil:
		color.New(color.FgGreen).Fprintf(r.out, "🚀 Launched local node (PID %d)\n", result.Node.PID)
		color.New(color.FgYellow).Fprintf(r.out, "📋 Logs: %s\n", result.Node.LogFile)
	case result.Attached:
		color.New(color.FgCyan).Fprintln(r.out, "🔗 Attached to running local node")
	case result.Node != nil:
		color.New(color.FgCyan).Fprintln(r.out, "🔗 Reusing local node from previous session")
	}

	fmt.Fprintf(r.out, "⛽ Gas limit: %s\n", result.Network.GasLimit)
	return nil
}

type disconnectOutput struct {
	Network    string `json:"network"`
	NodeKilled bool   `json:"nodeKilled"`
	NodeReset  bool   `json:"nodeReset"`
	NodeKept   bool   `json:"nodeKept"`
}

// RenderDisconnect renders the result of a disconnect
func (r *SessionRenderer) RenderDisconnect(result *usecase.DisconnectResult) error {
	if r.json {
		return writeJSON(r.out, disconnectOutput{
			Network:    result.Network,
			NodeKilled: result.NodeKill,
			NodeReset:  result.NodeReset,
			NodeKept:   result.NodeKept,
		})
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Disconnected from '%s'", result.Network)))
	switch {
	case result.NodeKill:
		color.New(color.FgGreen).Fprintln(r.out, "🛑 Local node stopped")
	case result.NodeReset:
		color.New(color.FgGreen).Fprintln(r.out, "♻️  Local node reverted to its state at attach time")
	case result.NodeKept:
		color.New(color.FgYellow).Fprintln(r.out, "📌 Local node left running")
	}
	return nil
}

// RenderActive renders the active network name
func (r *SessionRenderer) RenderActive(name string, ok bool) error {
	if r.json {
		var network *string
		if ok {
			network = &name
		}
		return writeJSON(r.out, map[string]*string{"network": network})
	}

	if !ok {
		color.New(color.FgYellow).Fprintln(r.out, "No active network")
		return nil
	}
	fmt.Fprintln(r.out, name)
	return nil
}

// RenderGas renders the gas limit message
func (r *SessionRenderer) RenderGas(message string, limit domain.GasLimit) error {
	if r.json {
		return writeJSON(r.out, map[string]string{"gasLimit": limit.String()})
	}
	fmt.Fprintln(r.out, message)
	return nil
}

type statusOutput struct {
	Network     string             `json:"network,omitempty"`
	Host        string             `json:"host,omitempty"`
	GasLimit    string             `json:"gasLimit,omitempty"`
	Connected   bool               `json:"connected"`
	ChainID     uint64             `json:"chainId,omitempty"`
	BlockHeight uint64             `json:"blockHeight"`
	Node        *domain.NodeHandle `json:"node,omitempty"`
	NodeHealthy bool               `json:"nodeHealthy"`
}

// RenderStatus renders the session status
func (r *SessionRenderer) RenderStatus(status *usecase.SessionStatus) error {
	if r.json {
		out := statusOutput{
			Network:     status.Network,
			Host:        status.Host,
			Connected:   status.Connected,
			ChainID:     status.ChainID,
			BlockHeight: status.BlockHeight,
			Node:        status.Node,
			NodeHealthy: status.NodeHealthy,
		}
		if status.Network != "" {
			out.GasLimit = status.GasLimit.String()
		}
		return writeJSON(r.out, out)
	}

	color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📊 Session Status:")

	if status.Network == "" {
		color.New(color.FgRed).Fprintln(r.out, "Network: 🔴 None")
	} else {
		color.New(color.FgGreen).Fprintf(r.out, "Network: 🟢 %s\n", status.Network)
		color.New(color.FgBlue).Fprintf(r.out, "RPC URL: %s\n", status.Host)
		fmt.Fprintf(r.out, "Gas limit: %s\n", status.GasLimit)
	}

	if status.Connected {
		color.New(color.FgGreen).Fprintln(r.out, "Transport: ✅ Connected")
		fmt.Fprintf(r.out, "Chain ID: %d\n", status.ChainID)
		fmt.Fprintf(r.out, "Block: %d\n", status.BlockHeight)
	} else {
		color.New(color.FgHiBlack).Fprintln(r.out, "Transport: Disconnected")
	}

	if status.Node == nil {
		color.New(color.FgHiBlack).Fprintln(r.out, "Local node: None")
		return nil
	}

	ownership := cases.Title(language.English).String(string(status.Node.Ownership))
	if status.Node.IsOwned() {
		fmt.Fprintf(r.out, "Local node: %s (PID %d) at %s\n", ownership, status.Node.PID, status.Node.Host)
		color.New(color.FgYellow).Fprintf(r.out, "Log file: %s\n", status.Node.LogFile)
	} else {
		fmt.Fprintf(r.out, "Local node: %s at %s\n", ownership, status.Node.Host)
	}
	if status.NodeHealthy {
		color.New(color.FgGreen).Fprintln(r.out, "RPC Health: ✅ Responding")
	} else {
		color.New(color.FgRed).Fprintln(r.out, "RPC Health: ❌ Not responding")
	}
	return nil
}

// RenderLogsHeader renders the header for log streaming
func (r *SessionRenderer) RenderLogsHeader(handle *domain.NodeHandle, follow bool) {
	if follow {
		color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📋 Showing local node logs (Ctrl+C to exit):")
	} else {
		color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📋 Local node logs:")
	}
	color.New(color.FgHiBlack).Fprintf(r.out, "Log file: %s\n\n", handle.LogFile)
}
