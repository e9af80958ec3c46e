package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"copaweb/internal/domain"
)

var testMessages = Messages{
	Required:     "Campo obrigatório",
	Confirm:      confirmMsg,
	SubmitFailed: failedMsg,
}

// fakeClient acknowledges clipboard writes the way the page script does.
type fakeClient struct {
	session *PageSession
	ackOK   bool
	sent    chan *domain.PageEvent
	closed  chan struct{}
}

func newFakeClient(session *PageSession, ackOK bool) *fakeClient {
	return &fakeClient{
		session: session,
		ackOK:   ackOK,
		sent:    make(chan *domain.PageEvent, 64),
		closed:  make(chan struct{}),
	}
}

func (c *fakeClient) Send(message interface{}) error {
	event := message.(*domain.PageEvent)
	if p, ok := event.Payload.(*domain.ClipboardWritePayload); ok {
		go c.session.AckClipboard(p.ID, c.ackOK)
	}
	c.sent <- event
	return nil
}

func (c *fakeClient) GetSessionID() string { return c.session.GetID() }

func (c *fakeClient) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

// next returns the next event of the given type, skipping others.
func (c *fakeClient) next(t *testing.T, typ domain.EventType) *domain.PageEvent {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-c.sent:
			if event.Type == typ {
				return event
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", typ)
			return nil
		}
	}
}

func TestPageSessionSubmitDeliversFeedback(t *testing.T) {
	session := NewPageSession("pt-BR", testMessages, &fakeCreator{code: "ABC123"}, FormOptions{}, testLogger())
	defer session.Close()

	client := newFakeClient(session, true)
	session.Attach(client)
	client.next(t, domain.EventFormState)

	session.Change("Copa")
	if err := session.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	clip := client.next(t, domain.EventClipboardWrite).Payload.(*domain.ClipboardWritePayload)
	if clip.Text != "ABC123" {
		t.Fatalf("expected clipboard text ABC123, got %q", clip.Text)
	}
	toast := client.next(t, domain.EventToast).Payload.(*domain.ToastPayload)
	if toast.Message != confirmMsg {
		t.Fatalf("unexpected toast %q", toast.Message)
	}
	if session.Form().State().Value != "" {
		t.Fatal("expected field reset")
	}
}

func TestPageSessionRequiredMessage(t *testing.T) {
	session := NewPageSession("pt-BR", testMessages, &fakeCreator{}, FormOptions{}, testLogger())
	defer session.Close()

	client := newFakeClient(session, true)
	session.Attach(client)

	initial := client.next(t, domain.EventFormState).Payload.(*FormStatePayload)
	if initial.ShowError || initial.Message != "" {
		t.Fatalf("untouched form must not show an error: %+v", initial)
	}

	session.Blur()
	state := client.next(t, domain.EventFormState).Payload.(*FormStatePayload)
	if !state.ShowError || state.Message != testMessages.Required {
		t.Fatalf("expected required message once touched: %+v", state)
	}
	if state.CanSubmit {
		t.Fatal("expected submit disabled")
	}
}

func TestPageSessionWriteTextWithoutClient(t *testing.T) {
	session := NewPageSession("pt-BR", testMessages, &fakeCreator{}, FormOptions{}, testLogger())
	defer session.Close()

	if err := session.WriteText(context.Background(), "ABC123"); !errors.Is(err, errNoClient) {
		t.Fatalf("expected errNoClient, got %v", err)
	}
}

func TestPageSessionWriteTextRejected(t *testing.T) {
	session := NewPageSession("pt-BR", testMessages, &fakeCreator{}, FormOptions{}, testLogger())
	defer session.Close()

	session.Attach(newFakeClient(session, false))

	if err := session.WriteText(context.Background(), "ABC123"); !errors.Is(err, errClipboardRejected) {
		t.Fatalf("expected errClipboardRejected, got %v", err)
	}
}

func TestPageSessionWriteTextCanceled(t *testing.T) {
	session := NewPageSession("pt-BR", testMessages, &fakeCreator{}, FormOptions{}, testLogger())
	defer session.Close()

	// attached but never acknowledges
	session.Attach(&silentClient{id: session.GetID()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := session.WriteText(ctx, "ABC123"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPageSessionAttachReplacesClient(t *testing.T) {
	session := NewPageSession("pt-BR", testMessages, &fakeCreator{}, FormOptions{}, testLogger())
	defer session.Close()

	first := newFakeClient(session, true)
	second := newFakeClient(session, true)
	session.Attach(first)
	session.Attach(second)

	select {
	case <-first.closed:
	case <-time.After(time.Second):
		t.Fatal("expected previous client to be closed")
	}

	session.Detach(first)
	if !session.HasClient() {
		t.Fatal("detaching a replaced client must keep the current one")
	}
	session.Detach(second)
	if session.HasClient() {
		t.Fatal("expected no client after detach")
	}
}

type silentClient struct{ id string }

func (c *silentClient) Send(message interface{}) error { return nil }
func (c *silentClient) GetSessionID() string           { return c.id }
func (c *silentClient) Close() error                   { return nil }
