package pages

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/pkg/backend"
)

const (
	registerDuplicateMessage = "An account with this email already exists."
	registerGenericMessage   = "Could not create the account. Please try again."
	registerLoginMessage     = "Account created. Please sign in."
)

// RegisterForm is the editable draft backing the registration page.
type RegisterForm struct {
	Email    string
	Password string
	FullName string
	Company  string
}

// RegisterState is a copy of the page state handed to renderers.
type RegisterState struct {
	Phase        dashboard.Phase
	Form         RegisterForm
	ErrorMessage string
	Notice       string
}

// RegisterPage drives the account creation flow.
type RegisterPage struct {
	mu     sync.Mutex
	pages  *Pages
	form   RegisterForm
	phase  dashboard.Phase
	err    string
	notice string
}

// Register returns the registration flow bound to the shared collaborators.
func (p *Pages) Register() *RegisterPage {
	return &RegisterPage{pages: p}
}

// SetForm replaces the draft fields.
func (r *RegisterPage) SetForm(form RegisterForm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.form = form
}

// State returns a copy of the page state. The password never round-trips.
func (r *RegisterPage) State() RegisterState {
	r.mu.Lock()
	defer r.mu.Unlock()
	form := r.form
	form.Password = ""
	return RegisterState{
		Phase:        r.phase,
		Form:         form,
		ErrorMessage: r.err,
		Notice:       r.notice,
	}
}

// Submit creates the account and signs the new user in. If the account is
// created but the follow-up login fails, the viewer is sent to the login page
// with a notice instead of an error.
func (r *RegisterPage) Submit(ctx context.Context, nav Navigator) error {
	r.mu.Lock()
	if r.phase == dashboard.PhaseSubmitting {
		r.mu.Unlock()
		return dashboard.ErrSubmitInFlight
	}
	form := r.form
	form.Email = strings.TrimSpace(form.Email)
	form.FullName = strings.TrimSpace(form.FullName)
	if form.Email == "" || form.Password == "" || form.FullName == "" {
		r.mu.Unlock()
		return dashboard.ErrIncompleteForm
	}
	r.phase = dashboard.PhaseSubmitting
	r.err = ""
	r.notice = ""
	r.mu.Unlock()

	_, err := r.pages.api.Register(ctx, backend.RegisterInput{
		Email:    form.Email,
		Password: form.Password,
		FullName: form.FullName,
		Company:  form.Company,
	})
	if err != nil {
		message := registerGenericMessage
		if errors.Is(err, backend.ErrConflict) {
			message = registerDuplicateMessage
		}
		r.mu.Lock()
		r.phase = dashboard.PhaseFailed
		r.err = message
		r.mu.Unlock()
		r.pages.telemetry.Record(ctx, "pages.register.failed", map[string]any{
			"email":     form.Email,
			"duplicate": errors.Is(err, backend.ErrConflict),
		})
		return err
	}
	r.pages.telemetry.Record(ctx, "pages.register.created", map[string]any{"email": form.Email})

	token, err := r.pages.api.Login(ctx, form.Email, form.Password)
	if err != nil {
		// The account exists; let the user sign in manually.
		r.mu.Lock()
		r.phase = dashboard.PhaseSuccess
		r.notice = registerLoginMessage
		r.mu.Unlock()
		if nav != nil {
			nav.NavigateTo(RouteLogin)
		}
		return nil
	}
	if err := r.pages.session.Open(token); err != nil {
		return err
	}

	r.mu.Lock()
	r.phase = dashboard.PhaseSuccess
	r.form.Password = ""
	r.mu.Unlock()
	if nav != nil {
		nav.NavigateTo(RouteDashboard)
	}
	return nil
}
