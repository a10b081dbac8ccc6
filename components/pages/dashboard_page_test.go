package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/pkg/backend"
)

func newDashboardService() *dashboard.Service {
	return dashboard.NewService(dashboard.Options{
		WidgetStore: dashboard.NewMemoryWidgetStore(),
	})
}

func TestDashboardLoadWithoutTokenRedirectsBeforeProfileCall(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{})
	pages, _ := newTestPages(api)
	page := pages.Dashboard(newDashboardService())

	var route string
	_, err := page.Load(context.Background(), NavigatorFunc(func(r string) { route = r }))
	if !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if route != RouteLogin {
		t.Fatalf("expected redirect to login, got %q", route)
	}
	if api.CallCount("current_user") != 0 {
		t.Fatal("the profile endpoint must not be called without a token")
	}
}

func TestDashboardLoadBuildsViewerFromProfile(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{
		Profile: backend.UserProfile{Email: "jane@example.com", FullName: "Jane Doe", Company: "Acme"},
	})
	pages, manager := newTestPages(api)
	if err := manager.Open("token-1"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	page := pages.Dashboard(newDashboardService())

	view, err := page.Load(context.Background(), nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if view.Viewer.UserID != "jane@example.com" || view.Viewer.FullName != "Jane Doe" {
		t.Fatalf("expected viewer built from profile, got %#v", view.Viewer)
	}
	if view.Layout.Areas == nil {
		t.Fatal("expected layout resolved")
	}
}

func TestDashboardLoadRejectedTokenForcesLogout(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{})
	api.Err = backend.ErrUnauthorized
	pages, manager := newTestPages(api)
	if err := manager.Open("stale-token"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	page := pages.Dashboard(newDashboardService())

	var route string
	_, err := page.Load(context.Background(), NavigatorFunc(func(r string) { route = r }))
	if !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if manager.Authenticated() {
		t.Fatal("expected session closed")
	}
	if route != RouteLogin {
		t.Fatalf("expected redirect to login, got %q", route)
	}
}

func TestDashboardLoadNonAuthProfileFailureStillEndsSession(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{})
	api.Err = errors.New("backend: connection refused")
	pages, manager := newTestPages(api)
	if err := manager.Open("token-1"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	page := pages.Dashboard(newDashboardService())

	if _, err := page.Load(context.Background(), nil); err == nil {
		t.Fatal("expected load to fail")
	}
	if manager.Authenticated() {
		t.Fatal("any profile failure on entry must invalidate the session")
	}
}
