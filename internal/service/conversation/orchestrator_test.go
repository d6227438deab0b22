package conversation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	chatmodel "github.com/tomm-ai/tomm-assistant/backend/internal/model/chat"
	settingsmodel "github.com/tomm-ai/tomm-assistant/backend/internal/model/settings"
	"github.com/tomm-ai/tomm-assistant/backend/internal/service/ai"
	chatservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/service/conversation"
	settingsservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/settings"
	"github.com/tomm-ai/tomm-assistant/backend/internal/storage"
)

// fakeGateway records calls and replays a scripted reply.
type fakeGateway struct {
	calls   int
	history []chatmodel.Message
	persona chatmodel.Persona
	reply   ai.Reply
	err     error
	onCall  func()
}

func (f *fakeGateway) SendPrompt(_ context.Context, history []chatmodel.Message, _ string, _ settingsmodel.AppSettings, persona chatmodel.Persona) (ai.Reply, error) {
	f.calls++
	f.history = append([]chatmodel.Message(nil), history...)
	f.persona = persona
	if f.onCall != nil {
		f.onCall()
	}
	return f.reply, f.err
}

func setup(gateway ai.Gateway) (*conversation.Orchestrator, *chatservice.Service) {
	store := storage.NewMemoryStore()
	sessions := chatservice.NewService(store)
	prefs := settingsservice.NewService(store)
	return conversation.New(sessions, prefs, gateway, nil), sessions
}

func TestSendMessageRejectsEmptyInput(t *testing.T) {
	gateway := &fakeGateway{}
	orch, sessions := setup(gateway)
	ctx := context.Background()

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := orch.SendMessage(ctx, input); !errors.Is(err, conversation.ErrEmptyMessage) {
			t.Fatalf("input %q: expected ErrEmptyMessage, got %v", input, err)
		}
	}

	if gateway.calls != 0 {
		t.Fatalf("gateway called %d times for empty input", gateway.calls)
	}
	if got := len(sessions.Sessions(ctx)); got != 0 {
		t.Fatalf("empty input created %d sessions", got)
	}
}

func TestFirstSendCreatesSessionAndTurn(t *testing.T) {
	gateway := &fakeGateway{reply: ai.Reply{
		Text:        "Hai! [EMOTION:😊] Apa kabar?",
		Suggestions: []string{"Baik", "Lumayan", "Kurang baik"},
	}}
	orch, sessions := setup(gateway)
	ctx := context.Background()

	turn, err := orch.SendMessage(ctx, "Halo")
	if err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}

	all := sessions.Sessions(ctx)
	if len(all) != 1 {
		t.Fatalf("expected exactly one session, got %d", len(all))
	}
	session := all[0]
	if session.Title != "Halo..." {
		t.Fatalf("unexpected title: %q", session.Title)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("expected two messages, got %d", len(session.Messages))
	}
	if session.Messages[0].Role != chatmodel.RoleUser || session.Messages[0].Content != "Halo" {
		t.Fatalf("unexpected user message: %+v", session.Messages[0])
	}
	assistant := session.Messages[1]
	if assistant.Role != chatmodel.RoleAssistant {
		t.Fatalf("unexpected role: %s", assistant.Role)
	}
	if assistant.Content != "Hai! [EMOTION:😊] Apa kabar?" {
		t.Fatalf("unexpected assistant content: %q", assistant.Content)
	}
	if len(assistant.Suggestions) != 3 || assistant.Suggestions[2] != "Kurang baik" {
		t.Fatalf("unexpected suggestions: %v", assistant.Suggestions)
	}

	// The gateway must see the history prior to the new user message.
	if len(gateway.history) != 0 {
		t.Fatalf("expected empty prior history, got %d messages", len(gateway.history))
	}
	if gateway.persona != chatmodel.PersonaStandard {
		t.Fatalf("unexpected persona: %s", gateway.persona)
	}
	if turn.Assistant.ID == turn.User.ID {
		t.Fatal("message ids must be distinct")
	}
}

func TestGatewayFailureAppendsFallbackReply(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("network down")}
	orch, sessions := setup(gateway)
	ctx := context.Background()

	turn, err := orch.SendMessage(ctx, "Halo")
	if err != nil {
		t.Fatalf("SendMessage must absorb gateway failures, got %v", err)
	}

	if turn.Assistant.Content != conversation.FallbackReply {
		t.Fatalf("unexpected fallback content: %q", turn.Assistant.Content)
	}
	if turn.Assistant.Suggestions != nil {
		t.Fatalf("fallback must not carry suggestions: %v", turn.Assistant.Suggestions)
	}
	if turn.Assistant.AudioData != "" {
		t.Fatal("fallback must not carry audio")
	}

	session, _ := sessions.GetSession(ctx, turn.SessionID)
	if len(session.Messages) != 2 {
		t.Fatalf("expected user + fallback, got %d messages", len(session.Messages))
	}
}

func TestNilGatewayFallsBack(t *testing.T) {
	orch, _ := setup(nil)

	turn, err := orch.SendMessage(context.Background(), "Halo")
	if err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if turn.Assistant.Content != conversation.FallbackReply {
		t.Fatalf("expected fallback reply, got %q", turn.Assistant.Content)
	}
}

func TestSecondSendSeesPriorHistory(t *testing.T) {
	gateway := &fakeGateway{reply: ai.Reply{Text: "balasan"}}
	orch, _ := setup(gateway)
	ctx := context.Background()

	if _, err := orch.SendMessage(ctx, "pertama"); err != nil {
		t.Fatalf("first SendMessage err: %v", err)
	}
	if _, err := orch.SendMessage(ctx, "kedua"); err != nil {
		t.Fatalf("second SendMessage err: %v", err)
	}

	if len(gateway.history) != 2 {
		t.Fatalf("expected 2 prior messages on second call, got %d", len(gateway.history))
	}
	if gateway.history[0].Content != "pertama" || gateway.history[1].Content != "balasan" {
		t.Fatalf("unexpected prior history: %+v", gateway.history)
	}
}

func TestReplyToDeletedSessionIsAbandoned(t *testing.T) {
	var orch *conversation.Orchestrator
	var sessions *chatservice.Service
	ctx := context.Background()

	gateway := &fakeGateway{reply: ai.Reply{Text: "too late"}}
	gateway.onCall = func() {
		// Simulate the user deleting the session mid-flight.
		active := sessions.ActiveID(ctx)
		if err := sessions.DeleteSession(ctx, active); err != nil {
			t.Errorf("DeleteSession err: %v", err)
		}
	}
	orch, sessions = setup(gateway)

	turn, err := orch.SendMessage(ctx, "Halo")
	if err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if turn.Assistant.ID != "" {
		t.Fatal("assistant message must be dropped for a deleted session")
	}
	if got := len(sessions.Sessions(ctx)); got != 0 {
		t.Fatalf("expected no sessions, got %d", got)
	}
}

// scriptedGateway numbers its calls and lets a test block or script
// each one individually. Replies echo the prompt so tests can verify
// which user message an assistant message answered.
type scriptedGateway struct {
	mu    sync.Mutex
	calls int
	run   func(call int, text string) ai.Reply
}

func (g *scriptedGateway) SendPrompt(_ context.Context, _ []chatmodel.Message, text string, _ settingsmodel.AppSettings, _ chatmodel.Persona) (ai.Reply, error) {
	g.mu.Lock()
	call := g.calls
	g.calls++
	g.mu.Unlock()
	return g.run(call, text), nil
}

// assertPairedTurns fails when a history contains interleaved turns:
// every user message must be immediately followed by the assistant
// reply to that exact message.
func assertPairedTurns(t *testing.T, messages []chatmodel.Message) {
	t.Helper()
	if len(messages)%2 != 0 {
		t.Fatalf("expected paired turns, got %d messages", len(messages))
	}
	for i := 0; i < len(messages); i += 2 {
		user, assistant := messages[i], messages[i+1]
		if user.Role != chatmodel.RoleUser || assistant.Role != chatmodel.RoleAssistant {
			t.Fatalf("turn %d roles out of order: %s then %s", i/2, user.Role, assistant.Role)
		}
		if assistant.Content != "re:"+user.Content {
			t.Fatalf("turn %d interleaved: %q answered by %q", i/2, user.Content, assistant.Content)
		}
	}
}

func TestConcurrentSendsDoNotInterleaveTurns(t *testing.T) {
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})

	gateway := &scriptedGateway{run: func(call int, text string) ai.Reply {
		if call == 0 {
			close(firstEntered)
			<-releaseFirst
		}
		return ai.Reply{Text: "re:" + text}
	}}
	orch, sessions := setup(gateway)
	ctx := context.Background()

	done := make(chan error, 2)
	go func() {
		_, err := orch.SendMessage(ctx, "pertama")
		done <- err
	}()
	<-firstEntered

	go func() {
		_, err := orch.SendMessage(ctx, "kedua")
		done <- err
	}()

	// Let the second send park on the session lock, then let the first
	// turn finish.
	time.Sleep(50 * time.Millisecond)
	close(releaseFirst)

	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("SendMessage err: %v", err)
		}
	}

	all := sessions.Sessions(ctx)
	if len(all) != 1 {
		t.Fatalf("expected one session, got %d", len(all))
	}
	if len(all[0].Messages) != 4 {
		t.Fatalf("expected two full turns, got %d messages", len(all[0].Messages))
	}
	assertPairedTurns(t, all[0].Messages)
}

// A send that finds its session deleted re-creates one; a concurrent
// send against the replacement must still be serialized with it.
func TestRecreatedSessionStillSerializesTurns(t *testing.T) {
	parkerEntered := make(chan struct{})
	releaseParker := make(chan struct{})
	secondEntered := make(chan struct{})
	releaseSecond := make(chan struct{})

	gateway := &scriptedGateway{run: func(call int, text string) ai.Reply {
		switch call {
		case 0:
			close(parkerEntered)
			<-releaseParker
		case 1:
			close(secondEntered)
			<-releaseSecond
		}
		return ai.Reply{Text: "re:" + text}
	}}
	orch, sessions := setup(gateway)
	ctx := context.Background()

	done := make(chan error, 3)
	go func() {
		_, err := orch.SendMessage(ctx, "awal")
		done <- err
	}()
	<-parkerEntered
	doomed := sessions.ActiveID(ctx)

	// Queue a second send behind the in-flight one, then delete the
	// session both of them selected.
	go func() {
		_, err := orch.SendMessage(ctx, "a")
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)
	if err := sessions.DeleteSession(ctx, doomed); err != nil {
		t.Fatalf("DeleteSession err: %v", err)
	}
	close(releaseParker)

	// The queued send re-creates a session and enters the gateway; a
	// third send against that replacement must wait for it.
	<-secondEntered
	go func() {
		_, err := orch.SendMessage(ctx, "b")
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)
	close(releaseSecond)

	for i := 0; i < 3; i++ {
		if err := <-done; err != nil {
			t.Fatalf("SendMessage err: %v", err)
		}
	}

	all := sessions.Sessions(ctx)
	if len(all) != 1 {
		t.Fatalf("expected only the replacement session, got %d", len(all))
	}
	if len(all[0].Messages) != 4 {
		t.Fatalf("expected two full turns, got %d messages", len(all[0].Messages))
	}
	assertPairedTurns(t, all[0].Messages)
}

func TestBusyClearsAfterTurn(t *testing.T) {
	gateway := &fakeGateway{reply: ai.Reply{Text: "ok"}}
	orch, _ := setup(gateway)

	if orch.Busy() {
		t.Fatal("orchestrator busy before any send")
	}
	if _, err := orch.SendMessage(context.Background(), "Halo"); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if orch.Busy() {
		t.Fatal("busy flag not cleared after turn")
	}
}
