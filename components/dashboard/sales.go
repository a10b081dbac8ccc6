package dashboard

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

const salesErrorMessage = "Could not fetch the sales prediction. Please try again."

// SalesForm is the editable draft backing the sales widget. Numeric fields
// stay text-entered until submit, matching how the form is filled in.
type SalesForm struct {
	Temperature    string
	Customers      string
	MarketingSpend string
	Month          int
	DayOfWeek      int
	Region         string
	Promotion      bool
	Holiday        bool
}

// DefaultSalesForm returns the widget's starting draft.
func DefaultSalesForm() SalesForm {
	return SalesForm{
		Temperature:    "10",
		Customers:      "50",
		MarketingSpend: "20",
		Month:          1,
		DayOfWeek:      0,
		Region:         "East",
		Promotion:      false,
		Holiday:        false,
	}
}

// EncodeSalesFeatures parses the draft into the backend's feature record,
// one-hot expanding the region and boolean flags. Region West maps to all
// three region flags at zero; only East/North/South have their own column.
func EncodeSalesFeatures(form SalesForm) (backend.SalesFeatures, error) {
	temperature, err := strconv.ParseFloat(strings.TrimSpace(form.Temperature), 64)
	if err != nil {
		return backend.SalesFeatures{}, ErrIncompleteForm
	}
	customers, err := strconv.Atoi(strings.TrimSpace(form.Customers))
	if err != nil {
		return backend.SalesFeatures{}, ErrIncompleteForm
	}
	spend, err := strconv.ParseFloat(strings.TrimSpace(form.MarketingSpend), 64)
	if err != nil {
		return backend.SalesFeatures{}, ErrIncompleteForm
	}
	if form.Month < 1 || form.Month > 12 {
		return backend.SalesFeatures{}, ErrIncompleteForm
	}
	if form.DayOfWeek < 0 || form.DayOfWeek > 6 {
		return backend.SalesFeatures{}, ErrIncompleteForm
	}

	features := backend.SalesFeatures{
		Temperature:    temperature,
		Customers:      customers,
		MarketingSpend: spend,
		Month:          form.Month,
		DayOfWeek:      form.DayOfWeek,
	}
	switch form.Region {
	case "East":
		features.RegionEast = 1
	case "North":
		features.RegionNorth = 1
	case "South":
		features.RegionSouth = 1
	}
	if form.Promotion {
		features.PromotionYes = 1
	}
	if form.Holiday {
		features.HolidayYes = 1
	}
	return features, nil
}

// SalesWidgetState is a copy of the controller state handed to renderers.
type SalesWidgetState struct {
	Phase        Phase
	Form         SalesForm
	Result       *backend.SalesPrediction
	ErrorMessage string
}

// SalesController drives the sales prediction widget through its
// Idle/Submitting/Success/Failed lifecycle.
type SalesController struct {
	mu         sync.Mutex
	api        backend.PredictionAPI
	session    *session.Manager
	snapshots  session.SnapshotStore
	results    *ResultLog
	telemetry  Telemetry
	form       SalesForm
	phase      Phase
	generation string
	result     *backend.SalesPrediction
	errMsg     string
}

// SalesControllerOptions wires the controller's collaborators.
type SalesControllerOptions struct {
	API       backend.PredictionAPI
	Session   *session.Manager
	Snapshots session.SnapshotStore
	Results   *ResultLog
	Telemetry Telemetry
}

// NewSalesController builds a controller starting from the default draft.
func NewSalesController(opts SalesControllerOptions) *SalesController {
	return &SalesController{
		api:       opts.API,
		session:   opts.Session,
		snapshots: opts.Snapshots,
		results:   opts.Results,
		telemetry: normalizeTelemetry(opts.Telemetry),
		form:      DefaultSalesForm(),
	}
}

// SetForm replaces the draft. Editing never transitions the state machine.
func (c *SalesController) SetForm(form SalesForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
}

// Reset abandons any outstanding call and restores the starting draft. The
// abandoned call's response is discarded when it arrives: installing a fresh
// generation here is what supersedes it.
func (c *SalesController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation = uuid.NewString()
	c.phase = PhaseIdle
	c.form = DefaultSalesForm()
	c.result = nil
	c.errMsg = ""
}

// State returns a copy of the current widget state.
func (c *SalesController) State() SalesWidgetState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := SalesWidgetState{
		Phase:        c.phase,
		Form:         c.form,
		ErrorMessage: c.errMsg,
	}
	if c.result != nil {
		result := *c.result
		state.Result = &result
	}
	return state
}

// Submit issues the prediction call for the current draft. Re-entrant from
// Success or Failed; ignored while a call is outstanding. The last submitted
// payload is mirrored into the session snapshot slot for report export.
func (c *SalesController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	features, err := EncodeSalesFeatures(c.form)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	generation := uuid.NewString()
	c.generation = generation
	c.phase = PhaseSubmitting
	c.result = nil
	c.errMsg = ""
	c.mu.Unlock()

	if c.snapshots != nil {
		if payload, err := json.Marshal(features); err == nil {
			_ = c.snapshots.SetSalesSnapshot(payload)
		}
	}

	token, err := sessionToken(c.session)
	if err != nil {
		return c.resolve(ctx, generation, backend.SalesPrediction{}, err)
	}
	prediction, err := c.api.PredictSales(ctx, token, features)
	return c.resolve(ctx, generation, prediction, err)
}

func (c *SalesController) resolve(ctx context.Context, generation string, prediction backend.SalesPrediction, err error) error {
	c.mu.Lock()
	if c.generation != generation {
		// A newer submit superseded this call; its outcome must not
		// overwrite the state the user is looking at now.
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.phase = PhaseFailed
		c.errMsg = salesErrorMessage
		c.mu.Unlock()
		closeOnAuthFailure(c.session, err)
		recordResult(ctx, c.telemetry, "dashboard.widget.sales.failed", map[string]any{"error": err.Error()})
		if c.results != nil {
			c.results.Append(ResultEntry{Widget: WidgetSales, Failed: true})
		}
		return err
	}
	c.phase = PhaseSuccess
	c.result = &prediction
	c.mu.Unlock()
	recordResult(ctx, c.telemetry, "dashboard.widget.sales.success", map[string]any{"prediction": prediction.Prediction})
	if c.results != nil {
		c.results.Append(ResultEntry{Widget: WidgetSales, Value: prediction.Prediction})
	}
	return nil
}
