// Package pages implements the application's page flows: login, registration,
// profile, and the dashboard shell. Each flow talks to the prediction API
// through the backend client and keeps the session manager as the single
// authority over the stored token.
package pages

import (
	"context"

	"github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

// Route names used by page flows when asking the navigator to move.
const (
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteDashboard = "/dashboard"
	RouteProfile   = "/profile"
)

// Navigator abstracts navigation so flows can be exercised without HTTP.
// The HTTP transport implements it with redirects.
type Navigator interface {
	NavigateTo(route string)
}

// NavigatorFunc adapts a function into a Navigator.
type NavigatorFunc func(route string)

// NavigateTo invokes the wrapped function.
func (f NavigatorFunc) NavigateTo(route string) { f(route) }

// Telemetry mirrors the dashboard telemetry contract.
type Telemetry = dashboard.Telemetry

// Options wires the collaborators shared by every page flow.
type Options struct {
	API       backend.API
	Session   *session.Manager
	Telemetry Telemetry
}

// Pages bundles the application's page flows.
type Pages struct {
	api       backend.API
	session   *session.Manager
	telemetry Telemetry
}

// New builds the page flows.
func New(opts Options) *Pages {
	return &Pages{
		api:       opts.API,
		session:   opts.Session,
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

// Logout terminates the session deliberately and sends the viewer to login.
func (p *Pages) Logout(_ context.Context, nav Navigator) {
	if p.session != nil {
		_ = p.session.Close(session.ReasonLogout)
	}
	if nav != nil {
		nav.NavigateTo(RouteLogin)
	}
}
