// Package metrics exports workflow counters for the recording pipeline.
package metrics

import "context"

// Save outcome labels.
const (
	OutcomeRegistered = "registered"
	OutcomeLocalOnly  = "local_only"
	OutcomeFailed     = "failed"
)

// Recorder counts the pipeline operations the console performs.
type Recorder interface {
	SessionStarted(ctx context.Context)
	SessionStopped(ctx context.Context, actions int)
	ToolGenerated(ctx context.Context)
	ToolSaved(ctx context.Context, outcome string)
}

// Noop is a Recorder that discards every measurement. Used when the OTEL
// exporter is disabled.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) SessionStarted(context.Context)      {}
func (*Noop) SessionStopped(context.Context, int) {}
func (*Noop) ToolGenerated(context.Context)       {}
func (*Noop) ToolSaved(context.Context, string)   {}
