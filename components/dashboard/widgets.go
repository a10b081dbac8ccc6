package dashboard

import (
	"context"
	"errors"

	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

// Widget definition codes for the built-in widgets.
const (
	WidgetSales       = "bi.widget.sales_prediction"
	WidgetMaintenance = "bi.widget.maintenance_prediction"
	WidgetChat        = "bi.widget.chat"
	WidgetSalesTrend  = "bi.widget.sales_trend"
	WidgetRiskGauge   = "bi.widget.failure_risk"
)

var (
	// ErrSubmitInFlight reports a submit attempted while a prior call is
	// outstanding. The guard holds; no second network call is issued.
	ErrSubmitInFlight = errors.New("dashboard: submission already in flight")
	// ErrIncompleteForm reports missing or unparseable required fields. The
	// state machine does not transition.
	ErrIncompleteForm = errors.New("dashboard: required form fields missing")
	errMissingSession = errors.New("dashboard: session manager is required")
)

// sessionToken resolves the current bearer token. A missing token counts as
// an auth rejection so widgets behave the same whether the token was never
// there or the backend refused it.
func sessionToken(manager *session.Manager) (string, error) {
	if manager == nil {
		return "", errMissingSession
	}
	token, ok := manager.Token()
	if !ok {
		return "", backend.ErrUnauthorized
	}
	return token, nil
}

// closeOnAuthFailure enforces the uniform forced-logout policy: any
// authenticated call rejected with an auth error terminates the session.
func closeOnAuthFailure(manager *session.Manager, err error) {
	if manager == nil || err == nil {
		return
	}
	if errors.Is(err, backend.ErrUnauthorized) {
		_ = manager.Close(session.ReasonAuthRejected)
	}
}

func recordResult(ctx context.Context, telemetry Telemetry, event string, payload map[string]any) {
	normalizeTelemetry(telemetry).Record(ctx, event, payload)
}
