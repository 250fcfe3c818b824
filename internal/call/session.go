package call

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
)

// Status is the lifecycle state of one interview call session.
type Status int

const (
	StatusInactive Status = iota
	StatusConnecting
	StatusActive
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusConnecting:
		return "connecting"
	case StatusActive:
		return "active"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Mode selects what a call session is for: generating a new interview
// definition, or conducting a prepared interview.
type Mode string

const (
	ModeGenerate Mode = "generate"
	ModeConduct  Mode = "conduct"
)

// InterviewSaver persists a generated interview definition.
type InterviewSaver interface {
	CreateFromMetadata(ctx context.Context, userID string, meta models.InterviewMetadata) (string, error)
}

// FeedbackGenerator scores a finished transcript and persists the result.
type FeedbackGenerator interface {
	Generate(ctx context.Context, interviewID, userID string, transcript []models.TranscriptMessage) (string, error)
}

// Params configures one call session.
type Params struct {
	Mode         Mode
	Username     string
	UserID       string
	SessionNonce string

	// conduct mode only
	InterviewID string
	Questions   []string

	// generate mode only: the agent workflow to start
	Workflow string
}

// Session drives one interview call end to end: connect, collect the
// transcript, detect completion, and trigger persistence exactly once.
// A session is owned by a single call; it is not reused.
type Session struct {
	mu        sync.Mutex
	status    Status
	params    Params
	transport Transport
	sub       Subscription
	saver     InterviewSaver
	feedback  FeedbackGenerator
	logger    *zap.Logger

	messages       []models.TranscriptMessage
	metadata       models.InterviewMetadata
	speaking       bool
	interviewSaved bool
	finalized      bool
	redirect       string
}

func NewSession(transport Transport, sub Subscription, saver InterviewSaver, feedback FeedbackGenerator, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		status:    StatusInactive,
		transport: transport,
		sub:       sub,
		saver:     saver,
		feedback:  feedback,
		logger:    logger,
	}
}

// Start asks the transport to open a voice session. On transport failure the
// session reverts to Inactive and may be retried.
func (s *Session) Start(ctx context.Context, params Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusConnecting || s.status == StatusActive {
		return fmt.Errorf("call already in progress (status %s)", s.status)
	}
	if params.Mode != ModeGenerate && params.Mode != ModeConduct {
		return fmt.Errorf("unknown call mode %q", params.Mode)
	}

	s.params = params
	s.status = StatusConnecting

	opts := s.startOptions()
	if err := s.transport.Start(ctx, opts); err != nil {
		s.status = StatusInactive
		s.releaseSubscription()
		s.logger.Error("failed to start call", zap.String("mode", string(params.Mode)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrTransportStart, err)
	}

	return nil
}

func (s *Session) startOptions() StartOptions {
	if s.params.Mode == ModeGenerate {
		return StartOptions{
			Descriptor: s.params.Workflow,
			VariableValues: map[string]string{
				"username":  s.params.Username,
				"userid":    s.params.UserID,
				"sessionId": s.params.SessionNonce,
			},
		}
	}

	var sb strings.Builder
	for _, q := range s.params.Questions {
		sb.WriteString("- ")
		sb.WriteString(q)
		sb.WriteString("\n")
	}
	return StartOptions{
		Descriptor: "interviewer",
		VariableValues: map[string]string{
			"questions": sb.String(),
		},
	}
}

// Run drains the event subscription until it closes or ctx is cancelled.
// Handlers run to completion before the next event is processed.
func (s *Session) Run(ctx context.Context) {
	s.mu.Lock()
	sub := s.sub
	s.mu.Unlock()
	if sub == nil {
		return
	}
	defer s.releaseSubscriptionLocked()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			s.HandleEvent(ctx, ev)
		}
	}
}

// HandleEvent applies one transport event to the session.
func (s *Session) HandleEvent(ctx context.Context, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case CallStartEvent:
		if s.status == StatusConnecting {
			s.status = StatusActive
			s.logger.Info("call started", zap.String("mode", string(s.params.Mode)))
		}
	case CallEndEvent:
		s.onCallEnded(ctx)
	case SpeechStartEvent:
		s.speaking = true
	case SpeechEndEvent:
		s.speaking = false
	case ErrorEvent:
		s.logger.Error("transport error", zap.String("message", e.Message))
	case TranscriptEvent:
		s.onTranscript(e)
	case InterviewGeneratedEvent:
		s.onInterviewGenerated(ctx, e)
	}
}

func (s *Session) onTranscript(e TranscriptEvent) {
	if !e.IsFinal() || s.status == StatusFinished {
		return
	}
	s.messages = append(s.messages, models.TranscriptMessage{Role: e.Role, Content: e.Transcript})
	s.sniffMetadata(e.Transcript)
}

// sniffMetadata is the fallback heuristic: some agents emit the collected
// metadata as a JSON utterance rather than a structured event. Malformed or
// partial content is not an error.
func (s *Session) sniffMetadata(content string) {
	if s.metadata.Complete() {
		return
	}
	var parsed models.InterviewMetadata
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return
	}
	if parsed.Complete() {
		s.metadata = parsed
	}
}

// onInterviewGenerated is the primary metadata path: the agent confirms the
// interview definition explicitly, and it is persisted right away.
func (s *Session) onInterviewGenerated(ctx context.Context, e InterviewGeneratedEvent) {
	if !s.metadata.Complete() {
		s.metadata = e.Data
	}
	s.saveInterview(ctx)
}

func (s *Session) saveInterview(ctx context.Context) {
	if s.interviewSaved || !s.metadata.Complete() {
		return
	}
	id, err := s.saver.CreateFromMetadata(ctx, s.params.UserID, s.metadata)
	if err != nil {
		s.logger.Error("failed to save interview", zap.Error(err))
		return
	}
	s.interviewSaved = true
	s.logger.Info("interview saved", zap.String("interviewId", id))
}

// onCallEnded handles the transport's terminal event. A duplicate call-end is
// a no-op: the status guard runs before any persistence.
func (s *Session) onCallEnded(ctx context.Context) {
	if s.status != StatusActive {
		return
	}
	s.status = StatusFinished
	s.finalize(ctx)
	s.releaseSubscription()
}

// Disconnect is the user-initiated cancellation path. Valid only from Active;
// calling it again is a no-op. It converges on the same finalize logic as
// call-end, so at most one persistence attempt occurs.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return nil
	}
	s.status = StatusFinished

	stopErr := s.transport.Stop(ctx)
	if stopErr != nil {
		s.logger.Warn("failed to stop transport", zap.Error(stopErr))
	}

	s.finalize(ctx)
	s.releaseSubscription()
	return stopErr
}

// finalize persists session outcomes once. The status is already Finished
// when this runs, so a racing terminal event cannot re-enter.
func (s *Session) finalize(ctx context.Context) {
	if s.finalized {
		return
	}
	s.finalized = true

	switch s.params.Mode {
	case ModeGenerate:
		if s.metadata.Complete() {
			s.saveInterview(ctx)
		} else {
			// Degraded but non-fatal: the call ended before the agent
			// confirmed a full interview definition.
			s.logger.Warn("no interview metadata collected, skipping save",
				zap.String("userId", s.params.UserID))
		}
		s.redirect = "/"
	case ModeConduct:
		if len(s.messages) == 0 {
			s.logger.Warn("empty transcript, skipping feedback generation",
				zap.String("interviewId", s.params.InterviewID))
			s.redirect = "/"
			return
		}
		transcript := make([]models.TranscriptMessage, len(s.messages))
		copy(transcript, s.messages)
		if _, err := s.feedback.Generate(ctx, s.params.InterviewID, s.params.UserID, transcript); err != nil {
			s.logger.Error("failed to generate feedback",
				zap.String("interviewId", s.params.InterviewID), zap.Error(err))
			s.redirect = "/"
			return
		}
		s.redirect = "/interview/" + s.params.InterviewID + "/feedback"
	}
}

func (s *Session) releaseSubscription() {
	if s.sub == nil {
		return
	}
	if err := s.sub.Close(); err != nil {
		s.logger.Warn("failed to close event subscription", zap.Error(err))
	}
	s.sub = nil
}

func (s *Session) releaseSubscriptionLocked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseSubscription()
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Messages returns a copy of the transcript collected so far, in arrival order.
func (s *Session) Messages() []models.TranscriptMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TranscriptMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Metadata returns the collected interview metadata.
func (s *Session) Metadata() models.InterviewMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata
}

// IsSpeaking reports whether the agent is currently speaking.
func (s *Session) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Redirect returns where the client should navigate after the session
// finished; empty until finalization.
func (s *Session) Redirect() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirect
}
