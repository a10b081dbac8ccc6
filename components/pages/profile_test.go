package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

func TestProfileLoadWithoutTokenRedirects(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{})
	pages, _ := newTestPages(api)
	profile := pages.Profile()

	var route string
	err := profile.Load(context.Background(), NavigatorFunc(func(r string) { route = r }))
	if !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if route != RouteLogin {
		t.Fatalf("expected redirect to login, got %q", route)
	}
	if api.CallCount("current_user") != 0 {
		t.Fatal("expected no backend call without a token")
	}
}

func TestProfileLoadPopulatesState(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{
		Profile: backend.UserProfile{Email: "jane@example.com", FullName: "Jane Doe", Company: "Acme"},
	})
	pages, manager := newTestPages(api)
	if err := manager.Open("token-1"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	profile := pages.Profile()
	if err := profile.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	state := profile.State()
	if state.Profile.FullName != "Jane Doe" || state.Profile.Company != "Acme" {
		t.Fatalf("expected profile populated, got %#v", state.Profile)
	}
}

func TestProfileLoadExpiredTokenForcesLogout(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{})
	api.Err = backend.ErrUnauthorized
	pages, manager := newTestPages(api)
	if err := manager.Open("stale-token"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	var closedWith session.CloseReason
	manager.OnClose(func(reason session.CloseReason) { closedWith = reason })

	var route string
	err := pages.Profile().Load(context.Background(), NavigatorFunc(func(r string) { route = r }))
	if !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if manager.Authenticated() {
		t.Fatal("expected session closed")
	}
	if closedWith != session.ReasonAuthRejected {
		t.Fatalf("expected auth rejection reason, got %q", closedWith)
	}
	if route != RouteLogin {
		t.Fatalf("expected redirect to login, got %q", route)
	}
}

func TestProfileLoadNonAuthFailureStillEndsSession(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{})
	api.Err = errors.New("backend: connection refused")
	pages, manager := newTestPages(api)
	if err := manager.Open("token-1"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	var closedWith session.CloseReason
	manager.OnClose(func(reason session.CloseReason) { closedWith = reason })

	var route string
	err := pages.Profile().Load(context.Background(), NavigatorFunc(func(r string) { route = r }))
	if err == nil {
		t.Fatal("expected load to fail")
	}
	if manager.Authenticated() {
		t.Fatal("expected session closed: an unverifiable token is not kept")
	}
	if _, ok := manager.Token(); ok {
		t.Fatal("expected persisted token cleared")
	}
	if closedWith != session.ReasonAuthRejected {
		t.Fatalf("expected auth rejection reason, got %q", closedWith)
	}
	if route != RouteLogin {
		t.Fatalf("expected redirect to login, got %q", route)
	}
}

func TestProfileSaveTrimsAndPersists(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{
		Profile: backend.UserProfile{Email: "jane@example.com"},
	})
	pages, manager := newTestPages(api)
	if err := manager.Open("token-1"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	profile := pages.Profile()

	err := profile.Save(context.Background(), backend.ProfileUpdate{
		FullName: "  Jane Updated  ",
		Company:  "Acme ",
	}, nil)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	state := profile.State()
	if !state.Saved {
		t.Fatal("expected saved flag set")
	}
	if state.Profile.FullName != "Jane Updated" {
		t.Fatalf("expected trimmed name persisted, got %q", state.Profile.FullName)
	}
}

func TestProfileSaveFailureShowsMessage(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{})
	api.Err = errors.New("backend: timeout")
	pages, manager := newTestPages(api)
	if err := manager.Open("token-1"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	profile := pages.Profile()

	if err := profile.Save(context.Background(), backend.ProfileUpdate{FullName: "Jane"}, nil); err == nil {
		t.Fatal("expected save to fail")
	}
	state := profile.State()
	if state.ErrorMessage != profileErrorMessage {
		t.Fatalf("expected generic message, got %q", state.ErrorMessage)
	}
	if manager.Authenticated() != true {
		t.Fatal("non-auth failure must not end the session")
	}
}
