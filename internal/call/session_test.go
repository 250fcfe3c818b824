package call

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
)

type fakeTransport struct {
	startErr   error
	stopErr    error
	startCalls int
	stopCalls  int
	lastOpts   StartOptions
}

func (t *fakeTransport) Start(ctx context.Context, opts StartOptions) error {
	t.startCalls++
	t.lastOpts = opts
	return t.startErr
}

func (t *fakeTransport) Stop(ctx context.Context) error {
	t.stopCalls++
	return t.stopErr
}

type fakeSaver struct {
	err   error
	calls []models.InterviewMetadata
}

func (s *fakeSaver) CreateFromMetadata(ctx context.Context, userID string, meta models.InterviewMetadata) (string, error) {
	s.calls = append(s.calls, meta)
	if s.err != nil {
		return "", s.err
	}
	return "interview-1", nil
}

type fakeGenerator struct {
	err   error
	calls [][]models.TranscriptMessage
}

func (g *fakeGenerator) Generate(ctx context.Context, interviewID, userID string, transcript []models.TranscriptMessage) (string, error) {
	g.calls = append(g.calls, transcript)
	if g.err != nil {
		return "", g.err
	}
	return "feedback-1", nil
}

func newTestSession(t *testing.T) (*Session, *fakeTransport, *fakeSaver, *fakeGenerator) {
	t.Helper()
	transport := &fakeTransport{}
	saver := &fakeSaver{}
	generator := &fakeGenerator{}
	return NewSession(transport, nil, saver, generator, nil), transport, saver, generator
}

func startActive(t *testing.T, s *Session, params Params) {
	t.Helper()
	if err := s.Start(context.Background(), params); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	s.HandleEvent(context.Background(), CallStartEvent{})
	if s.Status() != StatusActive {
		t.Fatalf("expected active status, got %s", s.Status())
	}
}

func generateParams() Params {
	return Params{Mode: ModeGenerate, Username: "alice", UserID: "user-1", Workflow: "wf-1"}
}

func conductParams() Params {
	return Params{Mode: ModeConduct, UserID: "user-1", InterviewID: "interview-1", Questions: []string{"Q1", "Q2"}}
}

func TestStartGenerateMode(t *testing.T) {
	s, transport, _, _ := newTestSession(t)

	if err := s.Start(context.Background(), generateParams()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if s.Status() != StatusConnecting {
		t.Fatalf("expected connecting, got %s", s.Status())
	}
	if transport.lastOpts.Descriptor != "wf-1" {
		t.Fatalf("expected workflow descriptor, got %q", transport.lastOpts.Descriptor)
	}
	if transport.lastOpts.VariableValues["username"] != "alice" {
		t.Fatalf("expected username variable, got %v", transport.lastOpts.VariableValues)
	}
}

func TestStartConductModeFormatsQuestions(t *testing.T) {
	s, transport, _, _ := newTestSession(t)

	if err := s.Start(context.Background(), conductParams()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	want := "- Q1\n- Q2\n"
	if got := transport.lastOpts.VariableValues["questions"]; got != want {
		t.Fatalf("expected questions %q, got %q", want, got)
	}
}

func TestStartTransportFailureRevertsToInactive(t *testing.T) {
	s, transport, saver, _ := newTestSession(t)
	transport.startErr = errors.New("gateway down")

	err := s.Start(context.Background(), generateParams())
	if !errors.Is(err, ErrTransportStart) {
		t.Fatalf("expected ErrTransportStart, got %v", err)
	}
	if s.Status() != StatusInactive {
		t.Fatalf("expected inactive after failure, got %s", s.Status())
	}
	if len(saver.calls) != 0 {
		t.Fatalf("expected no interview saved, got %d", len(saver.calls))
	}

	// a retry is allowed after a start failure
	transport.startErr = nil
	if err := s.Start(context.Background(), generateParams()); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if s.Status() != StatusConnecting {
		t.Fatalf("expected connecting after retry, got %s", s.Status())
	}
}

func TestStartRejectedWhileInProgress(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	startActive(t, s, generateParams())

	if err := s.Start(context.Background(), generateParams()); err == nil {
		t.Fatal("expected error starting an active session")
	}
}

func TestTranscriptAppendedInArrivalOrder(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	startActive(t, s, conductParams())

	ctx := context.Background()
	s.HandleEvent(ctx, TranscriptEvent{Role: models.RoleAssistant, TranscriptType: "final", Transcript: "Hi"})
	s.HandleEvent(ctx, TranscriptEvent{Role: models.RoleUser, TranscriptType: "partial", Transcript: "um"})
	s.HandleEvent(ctx, TranscriptEvent{Role: models.RoleUser, TranscriptType: "final", Transcript: "Hello"})

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 final messages, got %d", len(msgs))
	}
	if msgs[0].Content != "Hi" || msgs[1].Content != "Hello" {
		t.Fatalf("messages out of order: %+v", msgs)
	}
	if msgs[0].Role != models.RoleAssistant || msgs[1].Role != models.RoleUser {
		t.Fatalf("roles wrong: %+v", msgs)
	}
}

func TestMetadataSniffedFromTranscript(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	startActive(t, s, generateParams())

	ctx := context.Background()
	s.HandleEvent(ctx, TranscriptEvent{Role: models.RoleUser, TranscriptType: "final", Transcript: "not json"})
	if s.Metadata().Complete() {
		t.Fatal("metadata should not be complete yet")
	}

	payload, _ := json.Marshal(models.InterviewMetadata{
		Type: "technical", Role: "backend", Level: "mid", Techstack: "go", Amount: 5,
	})
	s.HandleEvent(ctx, TranscriptEvent{Role: models.RoleUser, TranscriptType: "final", Transcript: string(payload)})

	meta := s.Metadata()
	if !meta.Complete() {
		t.Fatal("expected complete metadata after JSON transcript")
	}
	if meta.Role != "backend" || meta.Amount != 5 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	// once complete, later sniffed content must not overwrite it
	other, _ := json.Marshal(models.InterviewMetadata{
		Type: "behavioural", Role: "frontend", Level: "senior", Techstack: "react", Amount: 3,
	})
	s.HandleEvent(ctx, TranscriptEvent{Role: models.RoleUser, TranscriptType: "final", Transcript: string(other)})
	if s.Metadata().Role != "backend" {
		t.Fatalf("metadata overwritten after completion: %+v", s.Metadata())
	}
}

func TestPartialMetadataIgnored(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	startActive(t, s, generateParams())

	s.HandleEvent(context.Background(), TranscriptEvent{
		Role:           models.RoleUser,
		TranscriptType: "final",
		Transcript:     `{"type":"technical","role":"backend"}`,
	})
	if s.Metadata().Complete() {
		t.Fatal("partial metadata must not be accepted")
	}
}

func TestInterviewGeneratedEventSavesImmediately(t *testing.T) {
	s, _, saver, _ := newTestSession(t)
	startActive(t, s, generateParams())

	ev := InterviewGeneratedEvent{Data: models.InterviewMetadata{
		Type: "technical", Role: "backend", Level: "mid", Techstack: "go", Amount: 5,
	}}
	s.HandleEvent(context.Background(), ev)

	if len(saver.calls) != 1 {
		t.Fatalf("expected one immediate save, got %d", len(saver.calls))
	}

	// the structured event is idempotent with respect to persistence
	s.HandleEvent(context.Background(), ev)
	if len(saver.calls) != 1 {
		t.Fatalf("expected save to stay at 1, got %d", len(saver.calls))
	}
}

func TestConductCallEndGeneratesFeedbackOnce(t *testing.T) {
	s, _, _, generator := newTestSession(t)
	startActive(t, s, conductParams())

	ctx := context.Background()
	s.HandleEvent(ctx, TranscriptEvent{Role: models.RoleAssistant, TranscriptType: "final", Transcript: "Hi"})
	s.HandleEvent(ctx, TranscriptEvent{
		Role:           models.RoleUser,
		TranscriptType: "final",
		Transcript:     `{"type":"technical","role":"backend","level":"mid","techstack":"go","amount":5}`,
	})
	s.HandleEvent(ctx, CallEndEvent{})

	if s.Status() != StatusFinished {
		t.Fatalf("expected finished, got %s", s.Status())
	}
	if len(generator.calls) != 1 {
		t.Fatalf("expected exactly one feedback generation, got %d", len(generator.calls))
	}
	if len(generator.calls[0]) != 2 {
		t.Fatalf("expected two-message transcript, got %d", len(generator.calls[0]))
	}
	if got := s.Redirect(); got != "/interview/interview-1/feedback" {
		t.Fatalf("unexpected redirect %q", got)
	}

	// a duplicate call-end from the transport is a no-op
	s.HandleEvent(ctx, CallEndEvent{})
	if len(generator.calls) != 1 {
		t.Fatalf("duplicate call-end triggered another generation: %d", len(generator.calls))
	}
}

func TestGenerateModeCallEndSkipsFeedback(t *testing.T) {
	s, _, _, generator := newTestSession(t)
	startActive(t, s, generateParams())

	s.HandleEvent(context.Background(), CallEndEvent{})

	if len(generator.calls) != 0 {
		t.Fatalf("generate mode must not produce feedback, got %d calls", len(generator.calls))
	}
	if got := s.Redirect(); got != "/" {
		t.Fatalf("expected home redirect, got %q", got)
	}
}

func TestFeedbackFailureRedirectsHome(t *testing.T) {
	s, _, _, generator := newTestSession(t)
	generator.err = errors.New("evaluator down")
	startActive(t, s, conductParams())

	ctx := context.Background()
	s.HandleEvent(ctx, TranscriptEvent{Role: models.RoleUser, TranscriptType: "final", Transcript: "Hello"})
	s.HandleEvent(ctx, CallEndEvent{})

	if got := s.Redirect(); got != "/" {
		t.Fatalf("expected safe default redirect, got %q", got)
	}
	if s.Status() != StatusFinished {
		t.Fatalf("failure left session in %s", s.Status())
	}
}

func TestDisconnectTwiceStopsAndPersistsOnce(t *testing.T) {
	s, transport, saver, _ := newTestSession(t)
	startActive(t, s, generateParams())

	payload, _ := json.Marshal(models.InterviewMetadata{
		Type: "technical", Role: "backend", Level: "mid", Techstack: "go", Amount: 5,
	})
	s.HandleEvent(context.Background(), TranscriptEvent{Role: models.RoleUser, TranscriptType: "final", Transcript: string(payload)})

	if err := s.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}
	if err := s.Disconnect(context.Background()); err != nil {
		t.Fatalf("second Disconnect returned error: %v", err)
	}

	if transport.stopCalls != 1 {
		t.Fatalf("expected one stop call, got %d", transport.stopCalls)
	}
	if len(saver.calls) != 1 {
		t.Fatalf("expected one persistence attempt, got %d", len(saver.calls))
	}
}

func TestDisconnectWithIncompleteMetadataSkipsSave(t *testing.T) {
	s, transport, saver, _ := newTestSession(t)
	startActive(t, s, generateParams())

	if err := s.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}

	if len(saver.calls) != 0 {
		t.Fatalf("expected save to be skipped, got %d", len(saver.calls))
	}
	if transport.stopCalls != 1 {
		t.Fatalf("expected one stop call, got %d", transport.stopCalls)
	}
	if s.Status() != StatusFinished {
		t.Fatalf("expected finished, got %s", s.Status())
	}
}

func TestCallEndThenDisconnectConverges(t *testing.T) {
	s, transport, _, generator := newTestSession(t)
	startActive(t, s, conductParams())

	ctx := context.Background()
	s.HandleEvent(ctx, TranscriptEvent{Role: models.RoleUser, TranscriptType: "final", Transcript: "Hello"})
	s.HandleEvent(ctx, CallEndEvent{})
	if err := s.Disconnect(ctx); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}

	if len(generator.calls) != 1 {
		t.Fatalf("expected one finalize, got %d generations", len(generator.calls))
	}
	if transport.stopCalls != 0 {
		t.Fatalf("disconnect after call-end must not stop transport, got %d", transport.stopCalls)
	}
}

func TestSpeechEventsToggleSpeaking(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	startActive(t, s, conductParams())

	ctx := context.Background()
	s.HandleEvent(ctx, SpeechStartEvent{})
	if !s.IsSpeaking() {
		t.Fatal("expected speaking after speech-start")
	}
	s.HandleEvent(ctx, SpeechEndEvent{})
	if s.IsSpeaking() {
		t.Fatal("expected not speaking after speech-end")
	}
}
