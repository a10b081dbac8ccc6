package commands

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

func TestSeedDashboardCommand(t *testing.T) {
	store := newStubStore()
	reg := &stubRegistry{}
	service := dashboard.NewService(dashboard.Options{WidgetStore: store})
	telemetry := &stubTelemetry{}
	cmd := NewSeedDashboardCommand(store, reg, service, telemetry)
	if err := cmd.Execute(context.Background(), SeedDashboardInput{SeedLayout: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if store.ensureAreaCalls != len(dashboard.DefaultAreaDefinitions()) {
		t.Fatalf("expected %d areas, got %d", len(dashboard.DefaultAreaDefinitions()), store.ensureAreaCalls)
	}
	if reg.count != len(dashboard.DefaultWidgetDefinitions()) {
		t.Fatalf("expected registry count %d, got %d", len(dashboard.DefaultWidgetDefinitions()), reg.count)
	}
	if store.assignCalls != len(dashboard.DefaultSeedWidgets()) {
		t.Fatalf("expected %d assign calls, got %d", len(dashboard.DefaultSeedWidgets()), store.assignCalls)
	}
	if telemetry.calls == 0 {
		t.Fatalf("expected telemetry to record events")
	}
}

func TestAssignWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewAssignWidgetCommand(service, nil)
	req := dashboard.AddWidgetRequest{DefinitionID: dashboard.WidgetSales, AreaCode: "bi.dashboard.main"}
	if err := cmd.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.addCalls != 1 {
		t.Fatalf("expected add call")
	}
}

func TestRemoveWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRemoveWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{WidgetID: "inst-1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.removeCalls != 1 {
		t.Fatalf("expected remove call")
	}
}

func TestReorderWidgetsCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewReorderWidgetsCommand(service, nil)
	if err := cmd.Execute(context.Background(), ReorderWidgetsInput{
		AreaCode:  "bi.dashboard.main",
		WidgetIDs: []string{"inst-1", "inst-2"},
	}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.reorderCalls != 1 {
		t.Fatalf("expected reorder call")
	}
}

func TestRefreshWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRefreshWidgetCommand(service, nil)
	event := dashboard.WidgetEvent{AreaCode: "bi.dashboard.main"}
	if err := cmd.Execute(context.Background(), RefreshWidgetInput{Event: event}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.refreshCalls != 1 {
		t.Fatalf("expected refresh call")
	}
}

func TestSaveLayoutPreferencesCommandExpandsHiddenIDs(t *testing.T) {
	service := &stubService{}
	cmd := NewSaveLayoutPreferencesCommand(service, nil)
	err := cmd.Execute(context.Background(), SaveLayoutPreferencesInput{
		Viewer:        dashboard.ViewerContext{UserID: "jane@example.com"},
		AreaOrder:     map[string][]string{"bi.dashboard.main": {"inst-2", "inst-1"}},
		HiddenWidgets: []string{"inst-3"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !service.lastOverrides.HiddenWidgets["inst-3"] {
		t.Fatalf("expected hidden id expanded into set, got %#v", service.lastOverrides)
	}
}

func TestSaveLayoutPreferencesCommandRequiresViewer(t *testing.T) {
	cmd := NewSaveLayoutPreferencesCommand(&stubService{}, nil)
	if err := cmd.Execute(context.Background(), SaveLayoutPreferencesInput{}); err == nil {
		t.Fatal("expected missing viewer to be rejected")
	}
}

func TestSubmitSalesCommandDrivesController(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{Sales: backend.SalesPrediction{Prediction: 99}})
	manager := session.NewManager(session.NewMemoryStore())
	if err := manager.Open("token-1"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	controller := dashboard.NewSalesController(dashboard.SalesControllerOptions{API: api, Session: manager})
	cmd := NewSubmitSalesCommand(controller, nil)

	form := dashboard.DefaultSalesForm()
	form.Region = "South"
	if err := cmd.Execute(context.Background(), SubmitSalesInput{Form: form}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	state := controller.State()
	if state.Phase != dashboard.PhaseSuccess || state.Form.Region != "South" {
		t.Fatalf("expected form applied and submitted, got %#v", state)
	}
}

func TestSubmitMaintenanceCommandDrivesController(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{
		Maintenance: backend.MaintenanceDiagnosis{Prediction: 1, Probability: 0.9},
	})
	manager := session.NewManager(session.NewMemoryStore())
	if err := manager.Open("token-1"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	controller := dashboard.NewMaintenanceController(dashboard.MaintenanceControllerOptions{API: api, Session: manager})
	cmd := NewSubmitMaintenanceCommand(controller, nil)

	if err := cmd.Execute(context.Background(), SubmitMaintenanceInput{Form: dashboard.DefaultMaintenanceForm()}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if controller.State().Severity != dashboard.SeverityCritical {
		t.Fatalf("expected critical severity, got %#v", controller.State())
	}
}

func TestSendChatCommandDrivesController(t *testing.T) {
	api := backend.NewMockClient(backend.MockData{ChatReply: "Looking good."})
	manager := session.NewManager(session.NewMemoryStore())
	if err := manager.Open("token-1"); err != nil {
		t.Fatalf("open session: %v", err)
	}
	controller := dashboard.NewChatController(dashboard.ChatControllerOptions{API: api, Session: manager})
	cmd := NewSendChatCommand(controller, nil)

	if err := cmd.Execute(context.Background(), SendChatInput{Prompt: "status?"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	transcript := controller.State().Transcript
	if transcript[len(transcript)-1].Text != "Looking good." {
		t.Fatalf("expected assistant reply appended, got %#v", transcript)
	}
}

func TestExportReportCommandRecordsPath(t *testing.T) {
	exporter := &stubExporter{path: "/tmp/report.html"}
	cmd := NewExportReportCommand(exporter, nil)
	if err := cmd.Execute(context.Background(), ExportReportInput{Viewer: dashboard.ViewerContext{UserID: "jane@example.com"}}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if cmd.LastPath != "/tmp/report.html" {
		t.Fatalf("expected last path recorded, got %q", cmd.LastPath)
	}
}

func TestExportReportCommandPropagatesFailure(t *testing.T) {
	exporter := &stubExporter{err: errors.New("disk full")}
	cmd := NewExportReportCommand(exporter, nil)
	if err := cmd.Execute(context.Background(), ExportReportInput{}); err == nil {
		t.Fatal("expected exporter failure to propagate")
	}
	if cmd.LastPath != "" {
		t.Fatalf("expected no path on failure, got %q", cmd.LastPath)
	}
}

type stubService struct {
	addCalls      int
	removeCalls   int
	reorderCalls  int
	refreshCalls  int
	lastOverrides dashboard.LayoutOverrides
}

func (s *stubService) AddWidget(context.Context, dashboard.AddWidgetRequest) error {
	s.addCalls++
	return nil
}

func (s *stubService) RemoveWidget(context.Context, string) error {
	s.removeCalls++
	return nil
}

func (s *stubService) ReorderWidgets(context.Context, string, []string) error {
	s.reorderCalls++
	return nil
}

func (s *stubService) NotifyWidgetUpdated(context.Context, dashboard.WidgetEvent) error {
	s.refreshCalls++
	return nil
}

func (s *stubService) SavePreferences(_ context.Context, _ dashboard.ViewerContext, overrides dashboard.LayoutOverrides) error {
	s.lastOverrides = overrides
	return nil
}

type stubExporter struct {
	path string
	err  error
}

func (s *stubExporter) Export(context.Context, dashboard.ViewerContext) (string, error) {
	return s.path, s.err
}

type stubRegistry struct {
	count int
}

func (s *stubRegistry) RegisterDefinition(dashboard.WidgetDefinition) error {
	s.count++
	return nil
}

func (s *stubRegistry) RegisterProvider(string, dashboard.Provider) error { return nil }
func (s *stubRegistry) Definition(string) (dashboard.WidgetDefinition, bool) {
	return dashboard.WidgetDefinition{}, false
}
func (s *stubRegistry) Provider(string) (dashboard.Provider, bool) { return nil, false }
func (s *stubRegistry) Definitions() []dashboard.WidgetDefinition  { return nil }

type stubStore struct {
	ensureAreaCalls int
	assignCalls     int
}

func newStubStore() *stubStore { return &stubStore{} }

func (s *stubStore) EnsureArea(context.Context, dashboard.WidgetAreaDefinition) (bool, error) {
	s.ensureAreaCalls++
	return true, nil
}

func (s *stubStore) EnsureDefinition(context.Context, dashboard.WidgetDefinition) (bool, error) {
	return true, nil
}

func (s *stubStore) CreateInstance(_ context.Context, input dashboard.CreateWidgetInstanceInput) (dashboard.WidgetInstance, error) {
	return dashboard.WidgetInstance{ID: input.DefinitionID + "-instance", DefinitionID: input.DefinitionID}, nil
}

func (s *stubStore) DeleteInstance(context.Context, string) error { return nil }

func (s *stubStore) AssignInstance(context.Context, dashboard.AssignWidgetInput) error {
	s.assignCalls++
	return nil
}

func (s *stubStore) ReorderArea(context.Context, dashboard.ReorderAreaInput) error { return nil }

func (s *stubStore) ResolveArea(context.Context, dashboard.ResolveAreaInput) (dashboard.ResolvedArea, error) {
	return dashboard.ResolvedArea{}, nil
}

type stubTelemetry struct {
	calls int
}

func (s *stubTelemetry) Record(context.Context, string, map[string]any) {
	s.calls++
}
