package pages

import (
	"context"
	"errors"

	"github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

// DashboardView is everything the dashboard template needs.
type DashboardView struct {
	Viewer dashboard.ViewerContext
	Layout dashboard.Layout
}

// DashboardPage drives the main dashboard flow.
type DashboardPage struct {
	pages   *Pages
	service *dashboard.Service
}

// Dashboard returns the dashboard flow backed by the given service.
func (p *Pages) Dashboard(service *dashboard.Service) *DashboardPage {
	return &DashboardPage{pages: p, service: service}
}

// Load verifies the session, fetches the profile, and resolves the layout.
// Without a token it redirects to login before any profile call is made.
func (d *DashboardPage) Load(ctx context.Context, nav Navigator) (DashboardView, error) {
	token, ok := d.pages.session.Token()
	if !ok {
		if nav != nil {
			nav.NavigateTo(RouteLogin)
		}
		return DashboardView{}, backend.ErrUnauthorized
	}

	profile, err := d.pages.api.CurrentUser(ctx, token)
	if err != nil {
		// Any profile failure on entry invalidates the session: the token is
		// either rejected or unverifiable, so the user signs in again.
		d.pages.closeOnAuthFailure(err)
		if d.pages.session.Authenticated() {
			_ = d.pages.session.Close(session.ReasonAuthRejected)
		}
		if nav != nil {
			nav.NavigateTo(RouteLogin)
		}
		return DashboardView{}, err
	}

	viewer := dashboard.ViewerContext{
		UserID:   profile.Email,
		FullName: profile.FullName,
		Company:  profile.Company,
	}
	layout, err := d.service.ConfigureLayout(ctx, viewer)
	if err != nil {
		return DashboardView{}, err
	}
	d.pages.telemetry.Record(ctx, "pages.dashboard.loaded", map[string]any{"viewer": viewer.UserID})
	return DashboardView{Viewer: viewer, Layout: layout}, nil
}

func backendAuthError(err error) bool {
	return errors.Is(err, backend.ErrUnauthorized)
}
