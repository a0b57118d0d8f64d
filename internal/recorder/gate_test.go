package recorder

import (
	"context"
	"errors"
	"testing"

	"github.com/mymcp/console/internal/backend"
)

type statusClientFunc func(ctx context.Context) (*backend.ExtensionStatus, error)

func (f statusClientFunc) ExtensionStatus(ctx context.Context) (*backend.ExtensionStatus, error) {
	return f(ctx)
}

func TestGateCheck(t *testing.T) {
	tests := []struct {
		name   string
		status *backend.ExtensionStatus
		err    error
		want   Status
	}{
		{
			name:   "fully connected",
			status: &backend.ExtensionStatus{Connected: true, WebsocketReady: true},
			want: Status{
				APIConnected:       true,
				WebSocketReady:     true,
				RecordingReady:     true,
				ToolExecutionReady: true,
			},
		},
		{
			name:   "http only",
			status: &backend.ExtensionStatus{Connected: true, WebsocketReady: false},
			want: Status{
				APIConnected:   true,
				RecordingReady: true,
			},
		},
		{
			name:   "disconnected",
			status: &backend.ExtensionStatus{},
			want:   Status{},
		},
		{
			name: "backend unreachable degrades to all false",
			err:  errors.New("connection refused"),
			want: Status{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(statusClientFunc(func(ctx context.Context) (*backend.ExtensionStatus, error) {
				return tt.status, tt.err
			}))

			got := gate.Check(context.Background())
			if got != tt.want {
				t.Errorf("Check() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGateCheckNotCached(t *testing.T) {
	calls := 0
	gate := NewGate(statusClientFunc(func(ctx context.Context) (*backend.ExtensionStatus, error) {
		calls++
		return &backend.ExtensionStatus{Connected: true}, nil
	}))

	gate.Check(context.Background())
	gate.Check(context.Background())

	if calls != 2 {
		t.Errorf("expected 2 backend queries, got %d", calls)
	}
}
