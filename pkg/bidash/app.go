// Package bidash assembles the BI dashboard application: backend client,
// session, widget controllers, dashboard service, page flows, and transport.
package bidash

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-bi-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-bi-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-bi-dashboard/components/pages"
	"github.com/goliatone/go-bi-dashboard/internal/config"
	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

// Options configures the application assembly. Config is required; the
// remaining fields override the defaults built from it.
type Options struct {
	Config *config.Config
	// API overrides the HTTP backend client, mainly for tests and demos.
	API    backend.API
	Logger zerolog.Logger
	// Store overrides the file-backed session store.
	Store session.TokenStore
}

// App is the composition root. Every collaborator is wired once here and
// shared by the CLI commands and the HTTP transport.
type App struct {
	cfg       *config.Config
	log       zerolog.Logger
	api       backend.API
	session   *session.Manager
	results   *dashboard.ResultLog
	service   *dashboard.Service
	registry  *dashboard.Registry
	store     dashboard.WidgetStore
	broadcast *dashboard.BroadcastHook
	exporter  *dashboard.Exporter
	pages     *gorouter.PageSet
	executor  *httpapi.CommandExecutor
	renderer  dashboard.Renderer
	seed      *commands.SeedDashboardCommand

	sales       *dashboard.SalesController
	maintenance *dashboard.MaintenanceController
	chat        *dashboard.ChatController
}

// New builds the full application graph from configuration.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("bidash: config is required")
	}
	cfg := opts.Config
	log := opts.Logger
	telemetry := logTelemetry{log: log}

	api := opts.API
	if api == nil {
		client, err := backend.NewClient(backend.Config{
			BaseURL:    cfg.APIURL,
			HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		})
		if err != nil {
			return nil, err
		}
		api = client
	}

	tokens := opts.Store
	if tokens == nil {
		fileStore, err := session.NewFileStore(cfg.SessionPath)
		if err != nil {
			return nil, err
		}
		tokens = fileStore
	}
	manager := session.NewManager(tokens)

	broadcast := dashboard.NewBroadcastHook()
	manager.OnClose(broadcast.SessionClosed)

	snapshots, _ := tokens.(session.SnapshotStore)
	results := dashboard.NewResultLog(0)

	sales := dashboard.NewSalesController(dashboard.SalesControllerOptions{
		API:       api,
		Session:   manager,
		Snapshots: snapshots,
		Results:   results,
		Telemetry: telemetry,
	})
	maintenance := dashboard.NewMaintenanceController(dashboard.MaintenanceControllerOptions{
		API:       api,
		Session:   manager,
		Results:   results,
		Telemetry: telemetry,
	})
	chat := dashboard.NewChatController(dashboard.ChatControllerOptions{
		API:       api,
		Session:   manager,
		Telemetry: telemetry,
	})
	// Ending the session abandons the widgets: in-flight responses resolve
	// against a stale generation and the next sign-in starts from clean state.
	manager.OnClose(func(session.CloseReason) {
		sales.Reset()
		maintenance.Reset()
		chat.Reset()
	})

	registry := dashboard.NewRegistry()
	if cfg.ManifestPath != "" {
		if _, err := registry.LoadManifestFile(cfg.ManifestPath); err != nil {
			return nil, fmt.Errorf("bidash: load manifest: %w", err)
		}
	}
	if err := dashboard.RegisterProviders(registry, dashboard.ControllerSet{
		Sales:       sales,
		Maintenance: maintenance,
		Chat:        chat,
		Results:     results,
	}, dashboard.WithChartCache(dashboard.NewChartCache(cfg.ChartCacheTTL))); err != nil {
		return nil, err
	}

	widgetStore := dashboard.NewMemoryWidgetStore()
	service := dashboard.NewService(dashboard.Options{
		WidgetStore: widgetStore,
		Providers:   registry,
		RefreshHook: broadcast,
		Telemetry:   telemetry,
	})

	exporter := dashboard.NewExporter(dashboard.ExporterOptions{
		Results:   results,
		Snapshots: snapshots,
		Dir:       cfg.ExportDir,
		Telemetry: telemetry,
	})

	shell := pages.New(pages.Options{
		API:       api,
		Session:   manager,
		Telemetry: telemetry,
	})
	pageSet := &gorouter.PageSet{
		Shell:     shell,
		Login:     shell.Login(),
		Register:  shell.Register(),
		Profile:   shell.Profile(),
		Dashboard: shell.Dashboard(service),
	}

	executor := &httpapi.CommandExecutor{
		AssignCommander:      commands.NewAssignWidgetCommand(service, telemetry),
		RemoveCommander:      commands.NewRemoveWidgetCommand(service, telemetry),
		ReorderCommander:     commands.NewReorderWidgetsCommand(service, telemetry),
		RefreshCommander:     commands.NewRefreshWidgetCommand(service, telemetry),
		PreferencesCommander: commands.NewSaveLayoutPreferencesCommand(service, telemetry),
		SalesCommander:       commands.NewSubmitSalesCommand(sales, telemetry),
		MaintenanceCommander: commands.NewSubmitMaintenanceCommand(maintenance, telemetry),
		ChatCommander:        commands.NewSendChatCommand(chat, telemetry),
		ExportCommander:      commands.NewExportReportCommand(exporter, telemetry),
	}

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:         cfg,
		log:         log,
		api:         api,
		session:     manager,
		results:     results,
		service:     service,
		registry:    registry,
		store:       widgetStore,
		broadcast:   broadcast,
		exporter:    exporter,
		pages:       pageSet,
		executor:    executor,
		renderer:    renderer,
		seed:        commands.NewSeedDashboardCommand(widgetStore, registry, service, telemetry),
		sales:       sales,
		maintenance: maintenance,
		chat:        chat,
	}, nil
}

// Seed registers the built-in areas and widget definitions and places the
// default layout.
func (a *App) Seed(ctx context.Context) error {
	return a.seed.Execute(ctx, commands.SeedDashboardInput{SeedLayout: true})
}

// Serve seeds the dashboard, mounts all routes on a Fiber adapter, and blocks
// serving HTTP until the listener fails or the context is canceled.
func (a *App) Serve(ctx context.Context) error {
	if err := a.Seed(ctx); err != nil {
		return err
	}
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		Pages:     a.pages,
		Renderer:  a.renderer,
		API:       a.executor,
		Broadcast: a.broadcast,
	}); err != nil {
		return err
	}
	a.log.Info().Str("addr", a.cfg.ListenAddr).Msg("dashboard listening")
	return server.Serve(a.cfg.ListenAddr)
}

// Backend exposes the API client shared by pages and widget controllers.
func (a *App) Backend() backend.API { return a.api }

// Session exposes the token lifecycle manager.
func (a *App) Session() *session.Manager { return a.session }

// Service exposes the dashboard layout service.
func (a *App) Service() *dashboard.Service { return a.service }

// Pages exposes the page flows for transports and tests.
func (a *App) Pages() *gorouter.PageSet { return a.pages }

// Executor exposes the command API used by HTTP and CLI transports.
func (a *App) Executor() *httpapi.CommandExecutor { return a.executor }

// Broadcast exposes the refresh fan-out hook.
func (a *App) Broadcast() *dashboard.BroadcastHook { return a.broadcast }

// Results exposes the in-memory prediction result feed.
func (a *App) Results() *dashboard.ResultLog { return a.results }

// Sales exposes the sales widget controller.
func (a *App) Sales() *dashboard.SalesController { return a.sales }

// Maintenance exposes the maintenance widget controller.
func (a *App) Maintenance() *dashboard.MaintenanceController { return a.maintenance }

// Chat exposes the chatbot controller.
func (a *App) Chat() *dashboard.ChatController { return a.chat }

// logTelemetry records widget and page events through zerolog.
type logTelemetry struct {
	log zerolog.Logger
}

func (t logTelemetry) Record(_ context.Context, event string, fields map[string]any) {
	t.log.Debug().Fields(fields).Msg(event)
}
