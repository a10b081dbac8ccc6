package dashboard

// Phase is the lifecycle position of a widget's single in-flight interaction.
// The tagged representation rules out impossible combinations such as a
// loading spinner shown next to a stale error.
type Phase int

const (
	// PhaseIdle means no submission has happened yet.
	PhaseIdle Phase = iota
	// PhaseSubmitting means a call is outstanding; further submits are ignored.
	PhaseSubmitting
	// PhaseSuccess means the last call resolved and its result is displayed.
	PhaseSuccess
	// PhaseFailed means the last call rejected and an error message is displayed.
	PhaseFailed
)

// String renders the phase for logs and templates.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}
