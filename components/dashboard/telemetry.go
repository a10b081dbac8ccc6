package dashboard

import (
	"context"

	"github.com/rs/zerolog"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// ZerologTelemetry emits dashboard events through a structured logger.
type ZerologTelemetry struct {
	Logger zerolog.Logger
}

// NewZerologTelemetry wraps the provided logger.
func NewZerologTelemetry(logger zerolog.Logger) *ZerologTelemetry {
	return &ZerologTelemetry{Logger: logger}
}

// Record logs the event with its payload as structured fields.
func (t *ZerologTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	entry := t.Logger.Info().Str("event", event)
	for key, value := range payload {
		entry = entry.Interface(key, value)
	}
	entry.Msg("dashboard event")
}
