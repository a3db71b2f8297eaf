package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

func TestSpinnerProgressReporter_StageCompletion(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := newSpinnerProgressReporter(&out)
	ctx := context.Background()

	// The spinner itself stays hidden when out is not a terminal
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "launch", Message: "Launching local node on port 8545...", Spinner: true})
	assert.Equal(t, "launch", r.stage)

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "launch", Message: "Local node ready"})
	assert.False(t, r.spinner.Active())
	assert.Contains(t, out.String(), "✓ Local node ready (")
}

func TestSpinnerProgressReporter_SilentStop(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := newSpinnerProgressReporter(&out)
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "launch", Message: "Launching...", Spinner: true})
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "launch"})
	assert.False(t, r.spinner.Active())
	assert.NotContains(t, out.String(), "✓")
}

func TestSpinnerProgressReporter_InfoAndError(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := newSpinnerProgressReporter(&out)

	r.Info("attached to node")
	r.Error("launch failed")
	assert.Contains(t, out.String(), "attached to node\n")
	assert.Contains(t, out.String(), "launch failed\n")
}
