package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"copaweb/internal/domain"
)

// clipboardAckTimeout bounds how long a submission waits for the browser to
// confirm a clipboard write.
const clipboardAckTimeout = 10 * time.Second

var (
	errNoClient          = errors.New("page is not connected")
	errClipboardRejected = errors.New("browser rejected clipboard write")
	errSessionClosed     = errors.New("page session closed")
)

// ClientConnection represents the browser attached to a page
type ClientConnection interface {
	Send(message interface{}) error
	GetSessionID() string
	Close() error
}

// Messages holds the localized strings a page session hands to its browser
type Messages struct {
	Required     string
	Confirm      string
	SubmitFailed string
}

// FormStatePayload is the form state as the browser renders it
type FormStatePayload struct {
	Value      string `json:"value"`
	Touched    bool   `json:"touched"`
	Valid      bool   `json:"valid"`
	Submitting bool   `json:"submitting"`
	CanSubmit  bool   `json:"canSubmit"`
	ShowError  bool   `json:"showError"`
	Message    string `json:"message,omitempty"`
}

// PageSession binds the form controller of one rendered page to the browser
// showing it. It is the page's only clipboard and notification surface.
type PageSession struct {
	id   string
	lang string
	// lastActive is a UnixNano timestamp
	lastActive atomic.Int64
	now        func() time.Time
	messages   Messages
	form       *FormController
	logger     *slog.Logger

	client   ClientConnection
	clientMu sync.RWMutex

	pending   map[string]chan bool // clipboard write ID -> ack
	pendingMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	events chan *domain.PageEvent
	done   chan struct{}
}

// NewPageSession creates a session with a fresh ID
func NewPageSession(lang string, messages Messages, creator PoolCreator, opts FormOptions, logger *slog.Logger) *PageSession {
	ctx, cancel := context.WithCancel(context.Background())
	s := &PageSession{
		id:       uuid.NewString(),
		lang:     lang,
		now:      time.Now,
		messages: messages,
		pending:  make(map[string]chan bool),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan *domain.PageEvent, 100),
		done:     make(chan struct{}),
	}
	s.logger = logger.With("sessionID", s.id)
	s.Touch()

	opts.ConfirmMessage = messages.Confirm
	opts.FailureMessage = messages.SubmitFailed
	s.form = NewFormController(creator, s, s, s, opts, s.logger)

	go s.eventLoop()

	return s
}

// GetID returns the session ID
func (s *PageSession) GetID() string {
	return s.id
}

// GetLang returns the language the page was rendered in
func (s *PageSession) GetLang() string {
	return s.lang
}

// GetLastActive returns when the page last attached, detached or sent a message
func (s *PageSession) GetLastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Touch records activity from the browser
func (s *PageSession) Touch() {
	s.lastActive.Store(s.now().UnixNano())
}

// Form returns the page's form controller
func (s *PageSession) Form() *FormController {
	return s.form
}

// HasClient reports whether a browser is attached
func (s *PageSession) HasClient() bool {
	s.clientMu.RLock()
	defer s.clientMu.RUnlock()
	return s.client != nil
}

// Attach registers the browser connection, replacing any previous one, and
// sends it the current form state.
func (s *PageSession) Attach(client ClientConnection) {
	s.Touch()
	s.clientMu.Lock()
	previous := s.client
	s.client = client
	s.clientMu.Unlock()

	if previous != nil && previous != client {
		previous.Close()
	}

	s.PublishState(s.form.State())
}

// Detach removes the browser connection if it is still the attached one.
func (s *PageSession) Detach(client ClientConnection) {
	s.Touch()
	s.clientMu.Lock()
	if s.client == client {
		s.client = nil
	}
	s.clientMu.Unlock()
}

// Change forwards a field edit to the form
func (s *PageSession) Change(value string) {
	s.form.Change(value)
}

// Blur forwards a field blur to the form
func (s *PageSession) Blur() {
	s.form.Blur()
}

// Submit runs a form submission bound to the session lifetime. It blocks
// until the submission is complete.
func (s *PageSession) Submit() error {
	return s.form.Submit(s.ctx)
}

// PublishState implements StatePublisher
func (s *PageSession) PublishState(state domain.FormState) {
	payload := &FormStatePayload{
		Value:      state.Value,
		Touched:    state.Touched,
		Valid:      state.Valid,
		Submitting: state.Submitting,
		CanSubmit:  state.CanSubmit(),
		ShowError:  state.ShowError() || state.Error != "",
	}
	switch {
	case state.ShowError():
		payload.Message = s.messages.Required
	case state.Error != "":
		payload.Message = state.Error
	}
	s.queueEvent(domain.NewEvent(domain.EventFormState, s.id, payload))
}

// WriteText implements Clipboard. The browser performs the write; this
// waits for its acknowledgement.
func (s *PageSession) WriteText(ctx context.Context, text string) error {
	if !s.HasClient() {
		return errNoClient
	}

	id := uuid.NewString()
	ack := make(chan bool, 1)

	s.pendingMu.Lock()
	s.pending[id] = ack
	s.pendingMu.Unlock()

	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, id)
		s.pendingMu.Unlock()
	}()

	s.queueEvent(domain.NewEvent(domain.EventClipboardWrite, s.id, &domain.ClipboardWritePayload{
		ID:   id,
		Text: text,
	}))

	timer := time.NewTimer(clipboardAckTimeout)
	defer timer.Stop()

	select {
	case ok := <-ack:
		if !ok {
			return errClipboardRejected
		}
		return nil
	case <-timer.C:
		return context.DeadlineExceeded
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return errSessionClosed
	}
}

// AckClipboard records the browser's answer to a clipboard write
func (s *PageSession) AckClipboard(id string, ok bool) {
	s.pendingMu.Lock()
	ack, found := s.pending[id]
	s.pendingMu.Unlock()

	if !found {
		s.logger.Debug("unknown clipboard ack", "id", id)
		return
	}

	select {
	case ack <- ok:
	default:
	}
}

// Notify implements Notifier
func (s *PageSession) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.queueEvent(domain.NewEvent(domain.EventToast, s.id, &domain.ToastPayload{Message: message}))
	return nil
}

// queueEvent adds an event to the delivery queue
func (s *PageSession) queueEvent(event *domain.PageEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop delivers queued events to the attached browser
func (s *PageSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.deliver(event)
		}
	}
}

func (s *PageSession) deliver(event *domain.PageEvent) {
	s.clientMu.RLock()
	defer s.clientMu.RUnlock()

	if s.client == nil {
		s.logger.Debug("no client attached, event not delivered", "type", event.Type)
		return
	}
	if err := s.client.Send(event); err != nil {
		s.logger.Debug("failed to send to client", "type", event.Type, "error", err)
	}
}

// Close shuts down the session
func (s *PageSession) Close() {
	select {
	case <-s.done:
		return // Already closed
	default:
		close(s.done)
	}

	s.cancel()

	s.clientMu.Lock()
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	s.clientMu.Unlock()
}
