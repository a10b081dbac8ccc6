package gorouter

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-bi-dashboard/components/pages"
	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatal("expected error when router/pages missing")
	}
}

func TestRegisterLoginPage(t *testing.T) {
	mock := newMockRouter()
	renderer := &stubRenderer{}
	pageSet, _ := newTestPages(backend.NewMockClient(backend.MockData{}))

	cfg := Config[struct{}]{Router: mock, Pages: pageSet, Renderer: renderer}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	h, ok := mock.routes["GET:"+pages.RouteLogin]
	if !ok {
		t.Fatal("expected login route to be registered")
	}
	ctx := newMockContext()
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(ctx.body) == 0 {
		t.Fatal("expected response body")
	}
	if renderer.calls == 0 {
		t.Fatal("renderer not invoked")
	}
}

func TestLoginSubmitRedirectsToDashboard(t *testing.T) {
	mock := newMockRouter()
	pageSet, _ := newTestPages(backend.NewMockClient(backend.MockData{Token: "token-xyz"}))

	cfg := Config[struct{}]{Router: mock, Pages: pageSet, Renderer: &stubRenderer{}}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	ctx := newMockContext()
	ctx.body = []byte("username=jane%40example.com&password=secret")
	if err := mock.routes["POST:"+pages.RouteLogin](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.headers["Location"] != pages.RouteDashboard {
		t.Fatalf("expected redirect to dashboard, got %q", ctx.headers["Location"])
	}
	if ctx.status != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", ctx.status)
	}
}

func TestLoginSubmitRendersErrorOnRejection(t *testing.T) {
	mock := newMockRouter()
	api := backend.NewMockClient(backend.MockData{})
	api.Err = backend.ErrUnauthorized
	pageSet, _ := newTestPages(api)
	renderer := &stubRenderer{}

	cfg := Config[struct{}]{Router: mock, Pages: pageSet, Renderer: renderer}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	ctx := newMockContext()
	ctx.body = []byte("username=jane%40example.com&password=wrong")
	if err := mock.routes["POST:"+pages.RouteLogin](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.headers["Location"] != "" {
		t.Fatalf("expected no redirect, got %q", ctx.headers["Location"])
	}
	if renderer.calls == 0 {
		t.Fatal("expected login page re-rendered")
	}
}

func TestSalesSubmitForwardsFormAndRedirects(t *testing.T) {
	mock := newMockRouter()
	pageSet, _ := newTestPages(backend.NewMockClient(backend.MockData{}))
	exec := &recordingExecutor{}

	cfg := Config[struct{}]{Router: mock, Pages: pageSet, Renderer: &stubRenderer{}, API: exec}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	ctx := newMockContext()
	ctx.body = []byte("temperature=12&customers=40&marketing_spend=8&month=3&region=West&promotion=on")
	if err := mock.routes["POST:/widgets/sales/submit"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if exec.sales.Form.Region != "West" || !exec.sales.Form.Promotion {
		t.Fatalf("expected form forwarded, got %#v", exec.sales.Form)
	}
	if exec.sales.Form.Month != 3 {
		t.Fatalf("expected month parsed, got %d", exec.sales.Form.Month)
	}
	if ctx.headers["Location"] != pages.RouteDashboard {
		t.Fatalf("expected redirect to dashboard, got %q", ctx.headers["Location"])
	}
}

func TestWidgetDeleteRequiresID(t *testing.T) {
	mock := newMockRouter()
	pageSet, _ := newTestPages(backend.NewMockClient(backend.MockData{}))

	cfg := Config[struct{}]{Router: mock, Pages: pageSet, Renderer: &stubRenderer{}, API: &recordingExecutor{}}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	h, ok := mock.routes["DELETE:/api/dashboard/widgets/:id"]
	if !ok {
		t.Fatal("expected widget delete route to be registered")
	}
	ctx := newMockContext()
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %d", ctx.status)
	}
}

func TestWidgetDeleteDelegates(t *testing.T) {
	mock := newMockRouter()
	pageSet, _ := newTestPages(backend.NewMockClient(backend.MockData{}))
	exec := &recordingExecutor{}

	cfg := Config[struct{}]{Router: mock, Pages: pageSet, Renderer: &stubRenderer{}, API: exec}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	ctx := newMockContext()
	ctx.params["id"] = "inst-1"
	if err := mock.routes["DELETE:/api/dashboard/widgets/:id"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if exec.removed != "inst-1" {
		t.Fatalf("expected removal delegated, got %q", exec.removed)
	}
}

func TestRegisterWebSocketRoute(t *testing.T) {
	mock := newMockRouter()
	pageSet, _ := newTestPages(backend.NewMockClient(backend.MockData{}))

	cfg := Config[struct{}]{
		Router:    mock,
		Pages:     pageSet,
		Renderer:  &stubRenderer{},
		Broadcast: dashboard.NewBroadcastHook(),
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if _, ok := mock.ws["/ws/refresh"]; !ok {
		t.Fatal("expected refresh websocket to be registered")
	}
}

// --- Test helpers ---

func newTestPages(api backend.API) (*PageSet, *session.Manager) {
	manager := session.NewManager(session.NewMemoryStore())
	shell := pages.New(pages.Options{API: api, Session: manager})
	service := dashboard.NewService(dashboard.Options{WidgetStore: dashboard.NewMemoryWidgetStore()})
	return &PageSet{
		Shell:     shell,
		Login:     shell.Login(),
		Register:  shell.Register(),
		Profile:   shell.Profile(),
		Dashboard: shell.Dashboard(service),
	}, manager
}

type mockRouter struct {
	prefix string
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Group(prefix string) router.Router[struct{}] {
	return &mockRouter{
		prefix: m.prefix + prefix,
		routes: m.routes,
		ws:     m.ws,
	}
}

func (m *mockRouter) record(method, path string, handler router.HandlerFunc) {
	full := m.prefix + path
	m.routes[method+":"+full] = handler
}

func (m *mockRouter) Handle(method router.HTTPMethod, path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(method), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Mount(prefix string) router.Router[struct{}] {
	return m.Group(prefix)
}

func (m *mockRouter) WithGroup(path string, cb func(r router.Router[struct{}])) router.Router[struct{}] {
	cb(m.Group(path))
	return m
}

func (m *mockRouter) Use(mw ...router.MiddlewareFunc) router.Router[struct{}] { return m }

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.GET), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.POST), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.DELETE), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.PUT), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Patch(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.PATCH), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Head(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.HEAD), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Static(prefix, root string, config ...router.Static) router.Router[struct{}] {
	return m
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	full := m.prefix + path
	m.ws[full] = handler
	return mockRouteInfo{}
}

func (m *mockRouter) Routes() []router.RouteDefinition { return nil }

func (m *mockRouter) ValidateRoutes() []error { return nil }

func (m *mockRouter) PrintRoutes() {}

func (m *mockRouter) WithLogger(logger router.Logger) router.Router[struct{}] { return m }

type mockRouteInfo struct{}

func (mockRouteInfo) SetName(string) router.RouteInfo { return mockRouteInfo{} }

func (mockRouteInfo) SetDescription(string) router.RouteInfo { return mockRouteInfo{} }

func (mockRouteInfo) SetSummary(string) router.RouteInfo { return mockRouteInfo{} }

func (mockRouteInfo) AddTags(...string) router.RouteInfo { return mockRouteInfo{} }

func (mockRouteInfo) AddParameter(string, string, bool, map[string]any) router.RouteInfo {
	return mockRouteInfo{}
}

func (mockRouteInfo) SetRequestBody(string, bool, map[string]any) router.RouteInfo {
	return mockRouteInfo{}
}

func (mockRouteInfo) AddResponse(int, string, map[string]any) router.RouteInfo {
	return mockRouteInfo{}
}

type mockContext struct {
	ctx     context.Context
	headers map[string]string
	body    []byte
	locals  map[any]any
	params  map[string]string
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		locals:  map[any]any{},
		params:  map[string]string{},
	}
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return m
}

func (m *mockContext) Send(b []byte) error {
	m.body = append([]byte{}, b...)
	return nil
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockContext) Body() []byte { return m.body }

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Locals(key any, value ...any) any {
	if len(value) == 0 {
		return m.locals[key]
	}
	m.locals[key] = value[0]
	return value[0]
}

func (m *mockContext) Method() string { return "" }

func (m *mockContext) Path() string { return "" }

func (m *mockContext) ParamsInt(key string, defaultValue int) int { return defaultValue }

func (m *mockContext) Query(name string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) QueryValues(name string) []string { return nil }

func (m *mockContext) QueryInt(name string, defaultValue int) int { return defaultValue }

func (m *mockContext) Queries() map[string]string { return nil }

func (m *mockContext) LocalsMerge(key any, value map[string]any) map[string]any { return value }

func (m *mockContext) Render(name string, bind any, layouts ...string) error { return nil }

func (m *mockContext) Cookie(cookie *router.Cookie) {}

func (m *mockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) CookieParser(out any) error { return nil }

func (m *mockContext) Redirect(location string, status ...int) error {
	m.headers["Location"] = location
	m.status = http.StatusFound
	if len(status) > 0 {
		m.status = status[0]
	}
	return nil
}

func (m *mockContext) RedirectToRoute(routeName string, params router.ViewContext, status ...int) error {
	return m.Redirect(routeName, status...)
}

func (m *mockContext) RedirectBack(fallback string, status ...int) error {
	return m.Redirect(fallback, status...)
}

func (m *mockContext) Header(key string) string { return m.headers[key] }

func (m *mockContext) Referer() string { return "" }

func (m *mockContext) OriginalURL() string { return "" }

func (m *mockContext) FormFile(key string) (*multipart.FileHeader, error) { return nil, nil }

func (m *mockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) IP() string { return "" }

func (m *mockContext) Status(code int) router.Context {
	m.status = code
	return m
}

func (m *mockContext) SendString(body string) error { return m.Send([]byte(body)) }

func (m *mockContext) SendStatus(code int) error {
	m.status = code
	return nil
}

func (m *mockContext) SendStream(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockContext) NoContent(code int) error {
	m.status = code
	return nil
}

func (m *mockContext) Set(key string, value any) { m.locals[key] = value }

func (m *mockContext) Get(key string, def any) any {
	if v, ok := m.locals[key]; ok {
		return v
	}
	return def
}

func (m *mockContext) GetString(key string, def string) string {
	if v, ok := m.locals[key].(string); ok {
		return v
	}
	return def
}

func (m *mockContext) GetInt(key string, def int) int {
	if v, ok := m.locals[key].(int); ok {
		return v
	}
	return def
}

func (m *mockContext) GetBool(key string, def bool) bool {
	if v, ok := m.locals[key].(bool); ok {
		return v
	}
	return def
}

func (m *mockContext) Bind(v any) error { return json.Unmarshal(m.body, v) }

func (m *mockContext) SetContext(ctx context.Context) { m.ctx = ctx }

func (m *mockContext) Next() error { return nil }

func (m *mockContext) RouteName() string { return "" }

func (m *mockContext) RouteParams() map[string]string { return m.params }

type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("ok"))
	}
	return "ok", nil
}

type recordingExecutor struct {
	sales       commands.SubmitSalesInput
	maintenance commands.SubmitMaintenanceInput
	chat        commands.SendChatInput
	removed     string
}

func (e *recordingExecutor) Assign(context.Context, dashboard.AddWidgetRequest) error { return nil }

func (e *recordingExecutor) Remove(_ context.Context, msg commands.RemoveWidgetInput) error {
	e.removed = msg.WidgetID
	return nil
}

func (e *recordingExecutor) Reorder(context.Context, commands.ReorderWidgetsInput) error { return nil }

func (e *recordingExecutor) Refresh(context.Context, commands.RefreshWidgetInput) error { return nil }

func (e *recordingExecutor) Preferences(context.Context, commands.SaveLayoutPreferencesInput) error {
	return nil
}

func (e *recordingExecutor) SubmitSales(_ context.Context, msg commands.SubmitSalesInput) error {
	e.sales = msg
	return nil
}

func (e *recordingExecutor) SubmitMaintenance(_ context.Context, msg commands.SubmitMaintenanceInput) error {
	e.maintenance = msg
	return nil
}

func (e *recordingExecutor) SendChat(_ context.Context, msg commands.SendChatInput) error {
	e.chat = msg
	return nil
}

func (e *recordingExecutor) Export(context.Context, commands.ExportReportInput) (string, error) {
	return "", nil
}
