package pages

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-bi-dashboard/components/dashboard"
)

const loginErrorMessage = "Invalid email or password."

// LoginForm is the editable draft backing the login page.
type LoginForm struct {
	Username string
	Password string
}

// LoginState is a copy of the page state handed to renderers.
type LoginState struct {
	Phase        dashboard.Phase
	Form         LoginForm
	ErrorMessage string
}

// LoginPage drives the sign-in flow.
type LoginPage struct {
	mu    sync.Mutex
	pages *Pages
	form  LoginForm
	phase dashboard.Phase
	err   string
}

// Login returns the sign-in flow bound to the shared collaborators.
func (p *Pages) Login() *LoginPage {
	return &LoginPage{pages: p}
}

// SetForm replaces the draft credentials.
func (l *LoginPage) SetForm(form LoginForm) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = form
}

// State returns a copy of the page state. The password never round-trips.
func (l *LoginPage) State() LoginState {
	l.mu.Lock()
	defer l.mu.Unlock()
	state := LoginState{
		Phase:        l.phase,
		Form:         LoginForm{Username: l.form.Username},
		ErrorMessage: l.err,
	}
	return state
}

// Submit exchanges the credentials for a token. On success the session opens
// and the navigator moves to the dashboard.
func (l *LoginPage) Submit(ctx context.Context, nav Navigator) error {
	l.mu.Lock()
	if l.phase == dashboard.PhaseSubmitting {
		l.mu.Unlock()
		return dashboard.ErrSubmitInFlight
	}
	form := l.form
	form.Username = strings.TrimSpace(form.Username)
	if form.Username == "" || form.Password == "" {
		l.mu.Unlock()
		return dashboard.ErrIncompleteForm
	}
	l.phase = dashboard.PhaseSubmitting
	l.err = ""
	l.mu.Unlock()

	token, err := l.pages.api.Login(ctx, form.Username, form.Password)
	if err != nil {
		l.mu.Lock()
		l.phase = dashboard.PhaseFailed
		l.err = loginErrorMessage
		l.mu.Unlock()
		l.pages.telemetry.Record(ctx, "pages.login.failed", map[string]any{"username": form.Username})
		return err
	}

	if err := l.pages.session.Open(token); err != nil {
		l.mu.Lock()
		l.phase = dashboard.PhaseFailed
		l.err = loginErrorMessage
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	l.phase = dashboard.PhaseSuccess
	l.form.Password = ""
	l.mu.Unlock()
	l.pages.telemetry.Record(ctx, "pages.login.success", map[string]any{"username": form.Username})
	if nav != nil {
		nav.NavigateTo(RouteDashboard)
	}
	return nil
}
