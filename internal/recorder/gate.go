package recorder

import (
	"context"

	"github.com/mymcp/console/internal/backend"
)

// Status is the derived connection-readiness view of the extension.
// RecordingReady needs only the HTTP channel; ToolExecutionReady
// additionally needs the realtime channel.
type Status struct {
	APIConnected       bool
	WebSocketReady     bool
	RecordingReady     bool
	ToolExecutionReady bool
}

// StatusClient reads the raw extension connection state.
type StatusClient interface {
	ExtensionStatus(ctx context.Context) (*backend.ExtensionStatus, error)
}

// Gate determines whether recording or tool execution may proceed. Each
// Check re-queries the backend; readiness is never cached across the gap
// between display and click.
type Gate struct {
	client StatusClient
}

func NewGate(client StatusClient) *Gate {
	return &Gate{client: client}
}

// Check returns the current readiness. It never fails: any transport error
// or non-success status degrades to the all-false value so the caller
// always has a renderable status.
func (g *Gate) Check(ctx context.Context) Status {
	raw, err := g.client.ExtensionStatus(ctx)
	if err != nil {
		return Status{}
	}
	return Status{
		APIConnected:       raw.Connected,
		WebSocketReady:     raw.WebsocketReady,
		RecordingReady:     raw.Connected,
		ToolExecutionReady: raw.Connected && raw.WebsocketReady,
	}
}
