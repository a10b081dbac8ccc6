// Package gorouter mounts the application's HTML pages, widget endpoints,
// JSON API, and refresh WebSocket on a go-router router.
package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-bi-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-bi-dashboard/components/pages"
	"github.com/goliatone/go-bi-dashboard/pkg/backend"
)

// PageSet bundles the page flows the router serves.
type PageSet struct {
	Shell     *pages.Pages
	Login     *pages.LoginPage
	Register  *pages.RegisterPage
	Profile   *pages.ProfilePage
	Dashboard *pages.DashboardPage
}

// Config wires go-router with the page flows, command API, and hooks.
type Config[T any] struct {
	Router    router.Router[T]
	Pages     *PageSet
	Renderer  dashboard.Renderer
	API       httpapi.Executor
	Broadcast *dashboard.BroadcastHook
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for endpoints.
type RouteConfig struct {
	Login             string
	Register          string
	Profile           string
	Dashboard         string
	Logout            string
	Export            string
	SalesSubmit       string
	MaintenanceSubmit string
	ChatSubmit        string
	APIBase           string
	WebSocket         string
}

// Register mounts every route on the router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Pages == nil || cfg.Pages.Shell == nil {
		return errors.New("gorouter: pages are required")
	}
	if cfg.Renderer == nil {
		return errors.New("gorouter: renderer is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	r := cfg.Router

	registerAuthPages(r, cfg, routes)
	registerDashboardPages(r, cfg, routes)

	if cfg.API != nil {
		registerWidgetSubmits(r, cfg, routes)
		registerAPI(r, cfg, routes)
	}
	if cfg.Broadcast != nil {
		registerWebSocket(r, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerAuthPages[T any](r router.Router[T], cfg Config[T], routes RouteConfig) {
	r.Get(routes.Login, router.WrapHandler(func(ctx router.Context) error {
		state := cfg.Pages.Login.State()
		return renderHTML(ctx, cfg.Renderer, "login", map[string]any{
			"username":   state.Form.Username,
			"error":      state.ErrorMessage,
			"submitting": state.Phase == dashboard.PhaseSubmitting,
		})
	}))

	r.Post(routes.Login, router.WrapHandler(func(ctx router.Context) error {
		form := parseForm(ctx.Body())
		cfg.Pages.Login.SetForm(pages.LoginForm{
			Username: form.Get("username"),
			Password: form.Get("password"),
		})
		redirectTo := ""
		err := cfg.Pages.Login.Submit(ctx.Context(), pages.NavigatorFunc(func(route string) {
			redirectTo = route
		}))
		if err != nil || redirectTo == "" {
			state := cfg.Pages.Login.State()
			return renderHTML(ctx, cfg.Renderer, "login", map[string]any{
				"username": state.Form.Username,
				"error":    state.ErrorMessage,
			})
		}
		return redirect(ctx, redirectTo)
	}))

	r.Get(routes.Register, router.WrapHandler(func(ctx router.Context) error {
		state := cfg.Pages.Register.State()
		return renderHTML(ctx, cfg.Renderer, "register", map[string]any{
			"form":  state.Form,
			"error": state.ErrorMessage,
		})
	}))

	r.Post(routes.Register, router.WrapHandler(func(ctx router.Context) error {
		form := parseForm(ctx.Body())
		cfg.Pages.Register.SetForm(pages.RegisterForm{
			Email:    form.Get("email"),
			Password: form.Get("password"),
			FullName: form.Get("full_name"),
			Company:  form.Get("company"),
		})
		redirectTo := ""
		err := cfg.Pages.Register.Submit(ctx.Context(), pages.NavigatorFunc(func(route string) {
			redirectTo = route
		}))
		if err != nil || redirectTo == "" {
			state := cfg.Pages.Register.State()
			return renderHTML(ctx, cfg.Renderer, "register", map[string]any{
				"form":  state.Form,
				"error": state.ErrorMessage,
			})
		}
		return redirect(ctx, redirectTo)
	}))

	r.Get(routes.Logout, router.WrapHandler(func(ctx router.Context) error {
		redirectTo := pages.RouteLogin
		cfg.Pages.Shell.Logout(ctx.Context(), pages.NavigatorFunc(func(route string) {
			redirectTo = route
		}))
		return redirect(ctx, redirectTo)
	}))
}

func registerDashboardPages[T any](r router.Router[T], cfg Config[T], routes RouteConfig) {
	r.Get(routes.Dashboard, router.WrapHandler(func(ctx router.Context) error {
		redirectTo := ""
		view, err := cfg.Pages.Dashboard.Load(ctx.Context(), pages.NavigatorFunc(func(route string) {
			redirectTo = route
		}))
		if redirectTo != "" {
			return redirect(ctx, redirectTo)
		}
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return renderHTML(ctx, cfg.Renderer, "dashboard", map[string]any{
			"viewer":       view.Viewer,
			"main_widgets": view.Layout.Areas["bi.dashboard.main"],
			"side_widgets": view.Layout.Areas["bi.dashboard.side"],
		})
	}))

	r.Get(routes.Profile, router.WrapHandler(func(ctx router.Context) error {
		redirectTo := ""
		err := cfg.Pages.Profile.Load(ctx.Context(), pages.NavigatorFunc(func(route string) {
			redirectTo = route
		}))
		if redirectTo != "" {
			return redirect(ctx, redirectTo)
		}
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		state := cfg.Pages.Profile.State()
		return renderHTML(ctx, cfg.Renderer, "profile", map[string]any{
			"profile": state.Profile,
			"saved":   state.Saved,
			"error":   state.ErrorMessage,
		})
	}))

	r.Post(routes.Profile, router.WrapHandler(func(ctx router.Context) error {
		form := parseForm(ctx.Body())
		update := backend.ProfileUpdate{
			FullName: form.Get("full_name"),
			Company:  form.Get("company"),
		}
		redirectTo := ""
		_ = cfg.Pages.Profile.Save(ctx.Context(), update, pages.NavigatorFunc(func(route string) {
			redirectTo = route
		}))
		if redirectTo != "" {
			return redirect(ctx, redirectTo)
		}
		state := cfg.Pages.Profile.State()
		return renderHTML(ctx, cfg.Renderer, "profile", map[string]any{
			"profile": state.Profile,
			"saved":   state.Saved,
			"error":   state.ErrorMessage,
		})
	}))

	r.Get(routes.Export, router.WrapHandler(func(ctx router.Context) error {
		redirectTo := ""
		view, err := cfg.Pages.Dashboard.Load(ctx.Context(), pages.NavigatorFunc(func(route string) {
			redirectTo = route
		}))
		if redirectTo != "" {
			return redirect(ctx, redirectTo)
		}
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		path, err := cfg.API.Export(ctx.Context(), commands.ExportReportInput{Viewer: view.Viewer})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"path": path})
	}))
}

func registerWidgetSubmits[T any](r router.Router[T], cfg Config[T], routes RouteConfig) {
	r.Post(routes.SalesSubmit, router.WrapHandler(func(ctx router.Context) error {
		form := parseForm(ctx.Body())
		msg := commands.SubmitSalesInput{Form: dashboard.SalesForm{
			Temperature:    form.Get("temperature"),
			Customers:      form.Get("customers"),
			MarketingSpend: form.Get("marketing_spend"),
			Month:          atoiDefault(form.Get("month"), 1),
			DayOfWeek:      atoiDefault(form.Get("day_of_week"), 0),
			Region:         form.Get("region"),
			Promotion:      form.Has("promotion"),
			Holiday:        form.Has("holiday"),
		}}
		// Submit errors surface through the widget's own state on re-render.
		_ = cfg.API.SubmitSales(ctx.Context(), msg)
		return redirect(ctx, routes.Dashboard)
	}))

	r.Post(routes.MaintenanceSubmit, router.WrapHandler(func(ctx router.Context) error {
		form := parseForm(ctx.Body())
		msg := commands.SubmitMaintenanceInput{Form: dashboard.MaintenanceForm{
			Sensor1:     form.Get("sensor1"),
			Sensor2:     form.Get("sensor2"),
			Sensor3:     form.Get("sensor3"),
			Temperature: form.Get("temperature"),
			Pressure:    form.Get("pressure"),
			Vibration:   form.Get("vibration"),
		}}
		_ = cfg.API.SubmitMaintenance(ctx.Context(), msg)
		return redirect(ctx, routes.Dashboard)
	}))

	r.Post(routes.ChatSubmit, router.WrapHandler(func(ctx router.Context) error {
		form := parseForm(ctx.Body())
		_ = cfg.API.SendChat(ctx.Context(), commands.SendChatInput{Prompt: form.Get("prompt")})
		return redirect(ctx, routes.Dashboard)
	}))
}

func registerAPI[T any](r router.Router[T], cfg Config[T], routes RouteConfig) {
	api := cfg.API
	base := r.Group(routes.APIBase)

	base.Post("/widgets", router.WrapHandler(func(ctx router.Context) error {
		var payload dashboard.AddWidgetRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Assign(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	base.Delete("/widgets/:id", router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		if err := api.Remove(ctx.Context(), commands.RemoveWidgetInput{WidgetID: id}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusNoContent, map[string]string{"status": "removed"})
	}))

	base.Post("/widgets/reorder", router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ReorderWidgetsInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Reorder(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "reordered"})
	}))

	base.Post("/widgets/refresh", router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	base.Post("/preferences", router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SaveLayoutPreferencesInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Preferences(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func renderHTML(ctx router.Context, renderer dashboard.Renderer, name string, data map[string]any) error {
	html, err := renderer.Render(name, data)
	if err != nil {
		return respondError(ctx, http.StatusInternalServerError, err)
	}
	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.Send([]byte(html))
}

func redirect(ctx router.Context, route string) error {
	ctx.SetHeader("Location", route)
	return ctx.JSON(http.StatusSeeOther, map[string]string{"redirect": route})
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func parseForm(body []byte) url.Values {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return url.Values{}
	}
	return values
}

func atoiDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n := 0
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return fallback
		}
		n = n*10 + int(ch-'0')
	}
	return n
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Login == "" {
		routes.Login = pages.RouteLogin
	}
	if routes.Register == "" {
		routes.Register = pages.RouteRegister
	}
	if routes.Profile == "" {
		routes.Profile = pages.RouteProfile
	}
	if routes.Dashboard == "" {
		routes.Dashboard = pages.RouteDashboard
	}
	if routes.Logout == "" {
		routes.Logout = "/logout"
	}
	if routes.Export == "" {
		routes.Export = "/export"
	}
	if routes.SalesSubmit == "" {
		routes.SalesSubmit = "/widgets/sales/submit"
	}
	if routes.MaintenanceSubmit == "" {
		routes.MaintenanceSubmit = "/widgets/maintenance/submit"
	}
	if routes.ChatSubmit == "" {
		routes.ChatSubmit = "/widgets/chat/submit"
	}
	if routes.APIBase == "" {
		routes.APIBase = "/api/dashboard"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws/refresh"
	}
	return routes
}
