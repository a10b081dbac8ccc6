package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

const (
	chatGreeting      = "Hello! I am the BI assistant. Ask me anything about your sales or equipment data."
	chatFallbackReply = "Sorry, I can't reply right now."
)

// ChatRole identifies a transcript entry's author.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in the conversation transcript.
type ChatMessage struct {
	Role ChatRole
	Text string
}

// ChatWidgetState is a copy of the controller state handed to renderers.
type ChatWidgetState struct {
	Phase      Phase
	Draft      string
	Transcript []ChatMessage
}

// ChatController drives the assistant widget. The transcript only ever grows;
// a failed call appends a fallback assistant reply instead of an error banner.
type ChatController struct {
	mu         sync.Mutex
	api        backend.ChatAPI
	session    *session.Manager
	telemetry  Telemetry
	draft      string
	phase      Phase
	generation string
	transcript []ChatMessage
}

// ChatControllerOptions wires the controller's collaborators.
type ChatControllerOptions struct {
	API       backend.ChatAPI
	Session   *session.Manager
	Telemetry Telemetry
}

// NewChatController builds a controller whose transcript opens with the
// assistant greeting.
func NewChatController(opts ChatControllerOptions) *ChatController {
	return &ChatController{
		api:        opts.API,
		session:    opts.Session,
		telemetry:  normalizeTelemetry(opts.Telemetry),
		transcript: []ChatMessage{{Role: RoleAssistant, Text: chatGreeting}},
	}
}

// SetDraft replaces the pending prompt text.
func (c *ChatController) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Reset abandons any outstanding call and starts a fresh conversation. A
// reply for the abandoned call resolves against a stale generation and never
// joins the new transcript.
func (c *ChatController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation = uuid.NewString()
	c.phase = PhaseIdle
	c.draft = ""
	c.transcript = []ChatMessage{{Role: RoleAssistant, Text: chatGreeting}}
}

// State returns a copy of the current widget state.
func (c *ChatController) State() ChatWidgetState {
	c.mu.Lock()
	defer c.mu.Unlock()
	transcript := make([]ChatMessage, len(c.transcript))
	copy(transcript, c.transcript)
	return ChatWidgetState{
		Phase:      c.phase,
		Draft:      c.draft,
		Transcript: transcript,
	}
}

// Submit sends the drafted prompt. The user message joins the transcript and
// the draft clears immediately, before the reply arrives.
func (c *ChatController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	prompt := strings.TrimSpace(c.draft)
	if prompt == "" {
		c.mu.Unlock()
		return ErrIncompleteForm
	}
	generation := uuid.NewString()
	c.generation = generation
	c.phase = PhaseSubmitting
	c.draft = ""
	c.transcript = append(c.transcript, ChatMessage{Role: RoleUser, Text: prompt})
	c.mu.Unlock()

	token, err := sessionToken(c.session)
	if err != nil {
		return c.resolve(ctx, generation, "", err)
	}
	reply, err := c.api.Chat(ctx, token, prompt)
	return c.resolve(ctx, generation, reply, err)
}

func (c *ChatController) resolve(ctx context.Context, generation, reply string, err error) error {
	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.phase = PhaseFailed
		c.transcript = append(c.transcript, ChatMessage{Role: RoleAssistant, Text: chatFallbackReply})
		c.mu.Unlock()
		closeOnAuthFailure(c.session, err)
		recordResult(ctx, c.telemetry, "dashboard.widget.chat.failed", map[string]any{"error": err.Error()})
		return err
	}
	c.phase = PhaseSuccess
	c.transcript = append(c.transcript, ChatMessage{Role: RoleAssistant, Text: reply})
	c.mu.Unlock()
	recordResult(ctx, c.telemetry, "dashboard.widget.chat.success", map[string]any{"chars": len(reply)})
	return nil
}
