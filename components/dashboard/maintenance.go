package dashboard

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

const maintenanceErrorMessage = "Could not fetch the failure diagnosis. Please try again."

// criticalProbability is the cutoff above which a predicted failure is
// escalated from warning to critical.
const criticalProbability = 0.75

// Severity is the display tier derived from a maintenance diagnosis.
type Severity string

const (
	// SeverityNormal means the model predicts normal operation.
	SeverityNormal Severity = "normal"
	// SeverityWarning means failure is predicted with moderate probability.
	SeverityWarning Severity = "warning"
	// SeverityCritical means failure is predicted with high probability.
	SeverityCritical Severity = "critical"
)

// ClassifySeverity maps a diagnosis onto its display tier.
func ClassifySeverity(diagnosis backend.MaintenanceDiagnosis) Severity {
	if diagnosis.Prediction != 1 {
		return SeverityNormal
	}
	if diagnosis.Probability > criticalProbability {
		return SeverityCritical
	}
	return SeverityWarning
}

// MaintenanceForm is the editable draft backing the maintenance widget.
type MaintenanceForm struct {
	Sensor1     string
	Sensor2     string
	Sensor3     string
	Temperature string
	Pressure    string
	Vibration   string
}

// DefaultMaintenanceForm returns the widget's starting draft.
func DefaultMaintenanceForm() MaintenanceForm {
	return MaintenanceForm{
		Sensor1:     "10.5",
		Sensor2:     "25.2",
		Sensor3:     "5.8",
		Temperature: "80",
		Pressure:    "3.5",
		Vibration:   "1.2",
	}
}

// EncodeMaintenanceReading parses every draft field as a float.
func EncodeMaintenanceReading(form MaintenanceForm) (backend.MaintenanceReading, error) {
	var reading backend.MaintenanceReading
	for _, field := range []struct {
		raw    string
		target *float64
	}{
		{form.Sensor1, &reading.Sensor1},
		{form.Sensor2, &reading.Sensor2},
		{form.Sensor3, &reading.Sensor3},
		{form.Temperature, &reading.Temperature},
		{form.Pressure, &reading.Pressure},
		{form.Vibration, &reading.Vibration},
	} {
		value, err := strconv.ParseFloat(strings.TrimSpace(field.raw), 64)
		if err != nil {
			return backend.MaintenanceReading{}, ErrIncompleteForm
		}
		*field.target = value
	}
	return reading, nil
}

// MaintenanceWidgetState is a copy of the controller state handed to renderers.
type MaintenanceWidgetState struct {
	Phase        Phase
	Form         MaintenanceForm
	Result       *backend.MaintenanceDiagnosis
	Severity     Severity
	ErrorMessage string
}

// MaintenanceController drives the equipment-failure widget.
type MaintenanceController struct {
	mu         sync.Mutex
	api        backend.PredictionAPI
	session    *session.Manager
	results    *ResultLog
	telemetry  Telemetry
	form       MaintenanceForm
	phase      Phase
	generation string
	result     *backend.MaintenanceDiagnosis
	errMsg     string
}

// MaintenanceControllerOptions wires the controller's collaborators.
type MaintenanceControllerOptions struct {
	API       backend.PredictionAPI
	Session   *session.Manager
	Results   *ResultLog
	Telemetry Telemetry
}

// NewMaintenanceController builds a controller starting from the default draft.
func NewMaintenanceController(opts MaintenanceControllerOptions) *MaintenanceController {
	return &MaintenanceController{
		api:       opts.API,
		session:   opts.Session,
		results:   opts.Results,
		telemetry: normalizeTelemetry(opts.Telemetry),
		form:      DefaultMaintenanceForm(),
	}
}

// SetForm replaces the draft without touching the state machine.
func (c *MaintenanceController) SetForm(form MaintenanceForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
}

// Reset abandons any outstanding call and restores the starting draft. The
// abandoned call resolves against a stale generation and is discarded.
func (c *MaintenanceController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation = uuid.NewString()
	c.phase = PhaseIdle
	c.form = DefaultMaintenanceForm()
	c.result = nil
	c.errMsg = ""
}

// State returns a copy of the current widget state.
func (c *MaintenanceController) State() MaintenanceWidgetState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := MaintenanceWidgetState{
		Phase:        c.phase,
		Form:         c.form,
		ErrorMessage: c.errMsg,
	}
	if c.result != nil {
		result := *c.result
		state.Result = &result
		state.Severity = ClassifySeverity(result)
	}
	return state
}

// Submit issues the diagnosis call for the current draft. The prior result is
// cleared before the call begins so a failure never shows stale output.
func (c *MaintenanceController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	reading, err := EncodeMaintenanceReading(c.form)
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

	token, err := sessionToken(c.session)
	if err != nil {
		return c.resolve(ctx, generation, backend.MaintenanceDiagnosis{}, err)
	}
	diagnosis, err := c.api.PredictMaintenance(ctx, token, reading)
	return c.resolve(ctx, generation, diagnosis, err)
}

func (c *MaintenanceController) resolve(ctx context.Context, generation string, diagnosis backend.MaintenanceDiagnosis, err error) error {
	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.phase = PhaseFailed
		c.errMsg = maintenanceErrorMessage
		c.mu.Unlock()
		closeOnAuthFailure(c.session, err)
		recordResult(ctx, c.telemetry, "dashboard.widget.maintenance.failed", map[string]any{"error": err.Error()})
		if c.results != nil {
			c.results.Append(ResultEntry{Widget: WidgetMaintenance, Failed: true})
		}
		return err
	}
	c.phase = PhaseSuccess
	c.result = &diagnosis
	severity := ClassifySeverity(diagnosis)
	c.mu.Unlock()
	recordResult(ctx, c.telemetry, "dashboard.widget.maintenance.success", map[string]any{
		"prediction":  diagnosis.Prediction,
		"probability": diagnosis.Probability,
		"severity":    string(severity),
	})
	if c.results != nil {
		c.results.Append(ResultEntry{Widget: WidgetMaintenance, Value: diagnosis.Probability, Severity: severity})
	}
	return nil
}
