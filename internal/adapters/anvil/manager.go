package anvil

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/netctl/internal/domain"
	"github.com/trebuchet-org/netctl/internal/domain/config"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

const (
	// DefaultLaunchTimeout bounds how long a spawned node has to answer RPC
	DefaultLaunchTimeout = 10 * time.Second

	pidFileName  = "node.pid"
	logFileName  = "node.log"
	probeTimeout = 2 * time.Second
	stopTimeout  = 5 * time.Second
	pollInterval = 200 * time.Millisecond

	// JSON-RPC "method not found"
	codeMethodNotFound = -32601
)

// Manager launches, attaches to and tears down the local node.
// It holds at most one handle at a time.
type Manager struct {
	mu            sync.Mutex
	handle        *domain.NodeHandle
	binary        string
	stateDir      string
	launchTimeout time.Duration
	log           *slog.Logger

	// command builds the node process; replaced in tests
	command func(args []string) *exec.Cmd
}

// NewManager creates a node manager that keeps pid and log files under the data dir
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	timeout := cfg.LaunchTimeout
	if timeout <= 0 {
		timeout = DefaultLaunchTimeout
	}
	binary := cfg.NodeBinary
	if binary == "" {
		binary = "anvil"
	}

	m := &Manager{
		binary:        binary,
		stateDir:      filepath.Join(cfg.DataDir, "priv"),
		launchTimeout: timeout,
		log:           log.With("component", "NodeManager"),
	}
	m.command = func(args []string) *exec.Cmd {
		return exec.Command(m.binary, args...)
	}
	return m
}

// IsActive reports whether a node handle is held. An owned node that died
// behind our back is forgotten here.
func (m *Manager) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return false
	}
	if m.handle.IsOwned() && !processAlive(m.handle.PID) {
		m.log.Debug("owned node exited", "pid", m.handle.PID)
		m.removePidFile(m.handle)
		m.handle = nil
		return false
	}
	return true
}

// IsOwned reports whether the held node was spawned by us
func (m *Manager) IsOwned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle.IsOwned()
}

// Handle returns the held node handle, or nil
func (m *Manager) Handle() *domain.NodeHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle
}

// Launch spawns a node with opts and waits until it answers JSON-RPC
func (m *Manager) Launch(ctx context.Context, opts *domain.NodeOptions) (*domain.NodeHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil {
		return nil, domain.LaunchErr{Reason: fmt.Sprintf("a node is already active at %s", m.handle.Host)}
	}
	if err := opts.Validate(); err != nil {
		return nil, domain.LaunchErr{Reason: "invalid node options", Err: err}
	}

	port := opts.EffectivePort()
	host := fmt.Sprintf("http://127.0.0.1:%d", port)

	// Something else owns the port; a readiness probe would answer for it
	if probe(ctx, host) == nil {
		return nil, domain.LaunchErr{Reason: fmt.Sprintf("port %d is already in use", port)}
	}

	if err := os.MkdirAll(m.stateDir, 0755); err != nil {
		return nil, domain.LaunchErr{Reason: "failed to create state directory", Err: err}
	}

	logPath := filepath.Join(m.stateDir, logFileName)
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, domain.LaunchErr{Reason: "failed to create log file", Err: err}
	}
	defer logFile.Close()

	args := buildNodeArgs(opts)
	cmd := m.command(args)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	m.log.Debug("starting node", "binary", cmd.Path, "args", strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return nil, domain.LaunchErr{Reason: fmt.Sprintf("failed to start %s", m.binary), Err: err}
	}

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	if err := m.waitReady(ctx, host, exited); err != nil {
		_ = cmd.Process.Kill()
		return nil, domain.LaunchErr{Reason: err.Error(), Err: tailLog(logPath)}
	}

	pidPath := filepath.Join(m.stateDir, pidFileName)
	if err := writePidFile(pidPath, cmd.Process.Pid); err != nil {
		_ = cmd.Process.Kill()
		return nil, domain.LaunchErr{Reason: "failed to write PID file", Err: err}
	}

	m.handle = &domain.NodeHandle{
		Ownership: domain.Owned,
		Host:      host,
		PID:       cmd.Process.Pid,
		PidFile:   pidPath,
		LogFile:   logPath,
		StartedAt: time.Now(),
	}
	m.log.Debug("node started", "pid", m.handle.PID, "host", host)
	return m.handle, nil
}

func (m *Manager) waitReady(ctx context.Context, host string, exited <-chan error) error {
	deadline := time.NewTimer(m.launchTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-exited:
			if err != nil {
				return fmt.Errorf("node exited before becoming ready: %v", err)
			}
			return fmt.Errorf("node exited before becoming ready")
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("node did not answer on %s within %s", host, m.launchTimeout)
		case <-ticker.C:
			if probe(ctx, host) == nil {
				return nil
			}
		}
	}
}

// Attach adopts a node someone else runs at host. A snapshot is taken so the
// chain can be put back on disconnect.
func (m *Manager) Attach(ctx context.Context, host string) (*domain.NodeHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil {
		return nil, domain.AttachErr{Host: host, Reason: "a node is already active"}
	}
	if err := probe(ctx, host); err != nil {
		return nil, domain.AttachErr{Host: host, Reason: "no node answering", Err: err}
	}

	baseline, err := snapshot(ctx, host)
	if err != nil {
		// Still attachable, but reset will report unsupported
		m.log.Debug("node does not support snapshots", "host", host, "error", err)
	}

	m.handle = &domain.NodeHandle{
		Ownership: domain.Attached,
		Host:      host,
		Baseline:  baseline,
		StartedAt: time.Now(),
	}
	m.log.Debug("attached to node", "host", host, "baseline", baseline)
	return m.handle, nil
}

// DetectActive reports whether a node answers JSON-RPC at host
func (m *Manager) DetectActive(ctx context.Context, host string) bool {
	return probe(ctx, host) == nil
}

// Kill terminates the owned node. Attached nodes are never killed.
func (m *Manager) Kill(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return fmt.Errorf("%w: no node is active", domain.ErrNotOwned)
	}
	if !m.handle.IsOwned() {
		return fmt.Errorf("%w: node at %s was attached, not launched", domain.ErrNotOwned, m.handle.Host)
	}

	if err := terminate(ctx, m.handle.PID); err != nil {
		return err
	}
	m.removePidFile(m.handle)
	m.log.Debug("node stopped", "pid", m.handle.PID)
	m.handle = nil
	return nil
}

// Reset puts an attached node back to the state it had at attach time and
// takes a fresh baseline. Owned nodes are left alone.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return fmt.Errorf("%w: no node is active", domain.ErrResetUnsupported)
	}
	if m.handle.IsOwned() {
		return nil
	}
	if m.handle.Baseline == "" {
		return fmt.Errorf("%w: no snapshot was taken at %s", domain.ErrResetUnsupported, m.handle.Host)
	}

	if err := revert(ctx, m.handle.Host, m.handle.Baseline); err != nil {
		return err
	}

	// evm_revert consumes the snapshot
	baseline, err := snapshot(ctx, m.handle.Host)
	if err != nil {
		m.log.Debug("failed to retake snapshot", "host", m.handle.Host, "error", err)
	}
	m.handle.Baseline = baseline
	m.log.Debug("node reset", "host", m.handle.Host)
	return nil
}

// Restore re-adopts a persisted handle if it still refers to a live node
func (m *Manager) Restore(ctx context.Context, handle *domain.NodeHandle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if handle == nil {
		return false
	}
	if m.handle != nil {
		return m.handle.Host == handle.Host
	}

	switch handle.Ownership {
	case domain.Owned:
		if !processAlive(handle.PID) {
			m.removePidFile(handle)
			return false
		}
	case domain.Attached:
		if probe(ctx, handle.Host) != nil {
			return false
		}
	default:
		return false
	}

	m.handle = handle
	return true
}

// StreamLogs copies the owned node log to writer. With follow it keeps
// tailing until ctx is cancelled.
func (m *Manager) StreamLogs(ctx context.Context, writer io.Writer, follow bool) error {
	m.mu.Lock()
	handle := m.handle
	m.mu.Unlock()

	if handle == nil || handle.LogFile == "" {
		return fmt.Errorf("no log file: no owned node is active")
	}

	file, err := os.Open(handle.LogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		if _, err := io.Copy(writer, reader); err != nil {
			return fmt.Errorf("failed to read log file: %w", err)
		}
		if !follow {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(pollInterval):
		}
	}
}

func (m *Manager) removePidFile(handle *domain.NodeHandle) {
	if handle.PidFile == "" {
		return
	}
	if err := os.Remove(handle.PidFile); err != nil && !os.IsNotExist(err) {
		m.log.Warn("failed to remove PID file", "path", handle.PidFile, "error", err)
	}
}

// buildNodeArgs constructs the command-line arguments for the node binary
func buildNodeArgs(opts *domain.NodeOptions) []string {
	args := []string{"--port", strconv.Itoa(opts.EffectivePort()), "--host", "0.0.0.0"}
	if opts.Accounts > 0 {
		args = append(args, "--accounts", strconv.Itoa(opts.Accounts))
	}
	if opts.Balance > 0 {
		args = append(args, "--balance", strconv.FormatUint(opts.Balance, 10))
	}
	if opts.ChainID > 0 {
		args = append(args, "--chain-id", strconv.FormatUint(opts.ChainID, 10))
	}
	if opts.BlockTime > 0 {
		args = append(args, "--block-time", strconv.Itoa(opts.BlockTime))
	}
	if opts.GasLimit > 0 {
		args = append(args, "--gas-limit", strconv.FormatUint(opts.GasLimit, 10))
	}
	if opts.Mnemonic != "" {
		args = append(args, "--mnemonic", opts.Mnemonic)
	}
	if opts.ForkURL != "" {
		args = append(args, "--fork-url", opts.ForkURL)
	}
	if opts.DataDir != "" {
		args = append(args, "--state", opts.DataDir)
	}
	return args
}

// probe checks that host answers eth_blockNumber
func probe(ctx context.Context, host string) error {
	var height hexutil.Uint64
	return call(ctx, host, &height, "eth_blockNumber")
}

func snapshot(ctx context.Context, host string) (string, error) {
	var id string
	if err := call(ctx, host, &id, "evm_snapshot"); err != nil {
		return "", fmt.Errorf("evm_snapshot failed: %w", err)
	}
	return id, nil
}

func revert(ctx context.Context, host, id string) error {
	var ok bool
	if err := call(ctx, host, &ok, "evm_revert", id); err != nil {
		if isMethodNotFound(err) {
			return fmt.Errorf("%w: %v", domain.ErrResetUnsupported, err)
		}
		return fmt.Errorf("evm_revert failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("evm_revert returned false for snapshot %s", id)
	}
	return nil
}

func call(ctx context.Context, host string, result interface{}, method string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, host)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.CallContext(ctx, result, method, args...)
}

func isMethodNotFound(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeMethodNotFound {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not supported") || strings.Contains(msg, "does not exist")
}

// terminate sends SIGTERM and escalates to SIGKILL if the process lingers
func terminate(ctx context.Context, pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if !processAlive(pid) {
			return nil
		}
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
		return nil
	}

	deadline := time.Now().Add(stopTimeout)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}

	if err := process.Kill(); err != nil && processAlive(pid) {
		return fmt.Errorf("failed to kill process: %w", err)
	}
	return nil
}

// processAlive sends signal 0 to check the process exists
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

// tailLog returns the last lines of the node log as an error, for launch failures
func tailLog(path string) error {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return errors.New(strings.Join(lines, "\n"))
}

// Ensure the manager implements the interface
var _ usecase.NodeManager = (*Manager)(nil)
