package client

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-chatbot/internal/domain"
)

type mockChatAPI struct {
	reply        string
	sendErr      error
	lastMessage  string
	lastSession  string
	sendCalls    int
	history      []domain.Message
	historyErr   error
	sessions     []string
	sessionsErr  error
	clearAllErr  error
	clearAllHits int
}

func (m *mockChatAPI) Send(_ context.Context, message, session string) (string, error) {
	m.sendCalls++
	m.lastMessage = message
	m.lastSession = session
	if m.sendErr != nil {
		return "", m.sendErr
	}
	return m.reply, nil
}

func (m *mockChatAPI) History(_ context.Context, session string) ([]domain.Message, error) {
	m.lastSession = session
	return m.history, m.historyErr
}

func (m *mockChatAPI) Sessions(_ context.Context) ([]string, error) {
	return m.sessions, m.sessionsErr
}

func (m *mockChatAPI) ClearSession(_ context.Context, session string) error {
	m.lastSession = session
	return nil
}

func (m *mockChatAPI) ClearAll(_ context.Context) error {
	m.clearAllHits++
	return m.clearAllErr
}

func TestSessionControllerSend_AppendsUserAndBot(t *testing.T) {
	api := &mockChatAPI{reply: "Hi there"}
	sc := NewSessionController(api, nil)

	sc.Send(context.Background(), "Hello")

	messages := sc.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 bubbles, got %d", len(messages))
	}
	if messages[0].Sender != domain.SenderUser || messages[0].Text != "Hello" {
		t.Fatalf("unexpected user bubble: %+v", messages[0])
	}
	if messages[1].Sender != domain.SenderBot || messages[1].Text != "Hi there" {
		t.Fatalf("unexpected bot bubble: %+v", messages[1])
	}
	if sc.Pending() {
		t.Fatalf("expected pending cleared after send")
	}
}

func TestSessionControllerSend_BlankIsNoop(t *testing.T) {
	api := &mockChatAPI{reply: "ok"}
	sc := NewSessionController(api, nil)

	sc.Send(context.Background(), "   \n\t")

	if api.sendCalls != 0 {
		t.Fatalf("expected no API call for blank text")
	}
	if len(sc.Messages()) != 0 {
		t.Fatalf("expected no bubbles for blank text")
	}
}

func TestSessionControllerSend_FailureRendersErrorBubble(t *testing.T) {
	api := &mockChatAPI{sendErr: errors.New("server down")}
	sc := NewSessionController(api, nil)

	sc.Send(context.Background(), "Hello")

	messages := sc.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected user bubble + error bubble, got %d", len(messages))
	}
	// Exactamente una burbuja de error y ninguna de respuesta.
	if messages[1].Sender != domain.SenderBot || messages[1].Text != ErrorBubbleText {
		t.Fatalf("expected fixed error bubble, got %+v", messages[1])
	}
	if sc.Pending() {
		t.Fatalf("expected pending cleared after failure")
	}
}

func TestSessionControllerSend_UsesCurrentSession(t *testing.T) {
	api := &mockChatAPI{reply: "ok"}
	sc := NewSessionController(api, nil)
	id := sc.StartNewSession()

	sc.Send(context.Background(), "Hello")

	if api.lastSession != id {
		t.Fatalf("expected session %q sent, got %q", id, api.lastSession)
	}
}

func TestSessionControllerStartNewSession(t *testing.T) {
	sc := NewSessionController(&mockChatAPI{}, nil)
	sc.messages = []domain.Message{{Text: "previa"}}

	id := sc.StartNewSession()

	if len(sc.Messages()) != 0 {
		t.Fatalf("expected messages cleared")
	}
	if sc.CurrentSession() != id {
		t.Fatalf("expected current session set to %q", id)
	}
	datePrefix := time.Now().UTC().Format("2006-01-02") + "-"
	if !strings.HasPrefix(id, datePrefix) {
		t.Fatalf("expected id with date prefix %q, got %q", datePrefix, id)
	}
	if other := sc.StartNewSession(); other == id {
		t.Fatalf("expected unique ids per call, got %q twice", id)
	}
}

func TestSessionControllerClearLocalView(t *testing.T) {
	api := &mockChatAPI{reply: "ok"}
	sc := NewSessionController(api, nil)
	sc.StartNewSession()
	sc.Send(context.Background(), "Hello")

	sc.ClearLocalView()

	if len(sc.Messages()) != 0 || sc.CurrentSession() != "" {
		t.Fatalf("expected local view cleared")
	}
	if api.clearAllHits != 0 {
		t.Fatalf("expected no server call on local clear")
	}
}

func TestSessionControllerLoadSessionList(t *testing.T) {
	api := &mockChatAPI{sessions: []string{"2024-01-01", "2024-01-02"}}
	sc := NewSessionController(api, nil)

	sc.LoadSessionList(context.Background())

	if got := sc.SessionList(); len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %+v", got)
	}
}

func TestSessionControllerLoadSessionList_KeepsStaleOnFailure(t *testing.T) {
	api := &mockChatAPI{sessions: []string{"2024-01-01"}}
	sc := NewSessionController(api, nil)
	sc.LoadSessionList(context.Background())

	api.sessionsErr = errors.New("server down")
	sc.LoadSessionList(context.Background())

	if got := sc.SessionList(); len(got) != 1 || got[0] != "2024-01-01" {
		t.Fatalf("expected stale list preserved, got %+v", got)
	}
}

func TestSessionControllerOpenSession(t *testing.T) {
	api := &mockChatAPI{
		history: []domain.Message{
			{Sender: domain.SenderUser, Text: "Hello", Session: "2024-01-01"},
			{Sender: domain.SenderBot, Text: "Hi there", Session: "2024-01-01"},
		},
	}
	sc := NewSessionController(api, nil)

	if err := sc.OpenSession(context.Background(), "2024-01-01"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sc.CurrentSession() != "2024-01-01" {
		t.Fatalf("expected current session set")
	}
	messages := sc.Messages()
	if len(messages) != 2 || messages[0].Text != "Hello" || messages[1].Text != "Hi there" {
		t.Fatalf("unexpected messages: %+v", messages)
	}
}

func TestSessionControllerOpenSession_FailureKeepsState(t *testing.T) {
	api := &mockChatAPI{reply: "ok"}
	sc := NewSessionController(api, nil)
	sc.Send(context.Background(), "Hello")

	api.historyErr = errors.New("server down")
	if err := sc.OpenSession(context.Background(), "otra"); err == nil {
		t.Fatalf("expected error")
	}
	if len(sc.Messages()) != 2 {
		t.Fatalf("expected prior messages untouched on failure")
	}
}

func TestSessionControllerPurgeAllHistory(t *testing.T) {
	api := &mockChatAPI{reply: "ok", sessions: []string{"s1"}}
	sc := NewSessionController(api, nil)
	sc.StartNewSession()
	sc.Send(context.Background(), "Hello")
	sc.LoadSessionList(context.Background())

	if err := sc.PurgeAllHistory(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if api.clearAllHits != 1 {
		t.Fatalf("expected one clear-all call")
	}
	if len(sc.Messages()) != 0 || sc.CurrentSession() != "" || len(sc.SessionList()) != 0 {
		t.Fatalf("expected local state cleared after confirmation")
	}
}

func TestSessionControllerPurgeAllHistory_NotOptimistic(t *testing.T) {
	api := &mockChatAPI{reply: "ok", sessions: []string{"s1"}, clearAllErr: errors.New("server down")}
	sc := NewSessionController(api, nil)
	sc.StartNewSession()
	sc.Send(context.Background(), "Hello")
	sc.LoadSessionList(context.Background())

	if err := sc.PurgeAllHistory(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	// Sin confirmación del servidor el estado local queda intacto.
	if len(sc.Messages()) == 0 || sc.CurrentSession() == "" || len(sc.SessionList()) == 0 {
		t.Fatalf("expected local state preserved when purge fails")
	}
}
