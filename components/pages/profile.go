package pages

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

const profileErrorMessage = "Could not save the profile. Please try again."

// ProfileState is a copy of the page state handed to renderers.
type ProfileState struct {
	Phase        dashboard.Phase
	Profile      backend.UserProfile
	Saved        bool
	ErrorMessage string
}

// ProfilePage drives the profile view/edit flow.
type ProfilePage struct {
	mu      sync.Mutex
	pages   *Pages
	profile backend.UserProfile
	phase   dashboard.Phase
	saved   bool
	err     string
}

// Profile returns the profile flow bound to the shared collaborators.
func (p *Pages) Profile() *ProfilePage {
	return &ProfilePage{pages: p}
}

// State returns a copy of the page state.
func (pp *ProfilePage) State() ProfileState {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	return ProfileState{
		Phase:        pp.phase,
		Profile:      pp.profile,
		Saved:        pp.saved,
		ErrorMessage: pp.err,
	}
}

// Load fetches the current profile. Any failure on entry ends the session
// and sends the viewer to login.
func (pp *ProfilePage) Load(ctx context.Context, nav Navigator) error {
	token, ok := pp.pages.session.Token()
	if !ok {
		if nav != nil {
			nav.NavigateTo(RouteLogin)
		}
		return backend.ErrUnauthorized
	}
	profile, err := pp.pages.api.CurrentUser(ctx, token)
	if err != nil {
		// The token is either rejected or unverifiable; either way the
		// user signs in again.
		pp.pages.closeOnAuthFailure(err)
		if pp.pages.session.Authenticated() {
			_ = pp.pages.session.Close(session.ReasonAuthRejected)
		}
		if nav != nil {
			nav.NavigateTo(RouteLogin)
		}
		return err
	}
	pp.mu.Lock()
	pp.profile = profile
	pp.mu.Unlock()
	return nil
}

// Save applies the edited fields.
func (pp *ProfilePage) Save(ctx context.Context, update backend.ProfileUpdate, nav Navigator) error {
	pp.mu.Lock()
	if pp.phase == dashboard.PhaseSubmitting {
		pp.mu.Unlock()
		return dashboard.ErrSubmitInFlight
	}
	pp.phase = dashboard.PhaseSubmitting
	pp.saved = false
	pp.err = ""
	pp.mu.Unlock()

	token, ok := pp.pages.session.Token()
	if !ok {
		pp.mu.Lock()
		pp.phase = dashboard.PhaseFailed
		pp.mu.Unlock()
		if nav != nil {
			nav.NavigateTo(RouteLogin)
		}
		return backend.ErrUnauthorized
	}

	update.FullName = strings.TrimSpace(update.FullName)
	update.Company = strings.TrimSpace(update.Company)

	profile, err := pp.pages.api.UpdateCurrentUser(ctx, token, update)
	if err != nil {
		pp.mu.Lock()
		pp.phase = dashboard.PhaseFailed
		pp.err = profileErrorMessage
		pp.mu.Unlock()
		pp.pages.closeOnAuthFailure(err)
		if pp.pages.session != nil && !pp.pages.session.Authenticated() && nav != nil {
			nav.NavigateTo(RouteLogin)
		}
		return err
	}

	pp.mu.Lock()
	pp.phase = dashboard.PhaseSuccess
	pp.profile = profile
	pp.saved = true
	pp.mu.Unlock()
	pp.pages.telemetry.Record(ctx, "pages.profile.saved", map[string]any{"email": profile.Email})
	return nil
}

// closeOnAuthFailure enforces the uniform forced-logout policy for page flows.
func (p *Pages) closeOnAuthFailure(err error) {
	if p.session == nil || err == nil {
		return
	}
	if backendAuthError(err) {
		_ = p.session.Close(session.ReasonAuthRejected)
	}
}
