package call

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCallNotFound signals an unknown or already-ended call id.
var ErrCallNotFound = errors.New("call not found")

// finishedRetention is how long a call stays addressable after its event
// stream ends, so the client's final status poll can still read the redirect.
const finishedRetention = time.Minute

// TransportFactory opens a fresh transport handle and its event subscription
// for one call. Each session gets its own handle, scoped to its lifetime.
type TransportFactory func(ctx context.Context) (Transport, Subscription, error)

// Manager tracks the active call sessions on this instance.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*runningCall

	dial     TransportFactory
	saver    InterviewSaver
	feedback FeedbackGenerator
	workflow string
	retain   time.Duration
	logger   *zap.Logger
}

type runningCall struct {
	session *Session
	cancel  context.CancelFunc
}

func NewManager(dial TransportFactory, saver InterviewSaver, feedback FeedbackGenerator, workflow string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*runningCall),
		dial:     dial,
		saver:    saver,
		feedback: feedback,
		workflow: workflow,
		retain:   finishedRetention,
		logger:   logger,
	}
}

// StartCall opens a transport handle, starts a session on it and begins
// draining its events. Returns the call id used for status and disconnect.
func (m *Manager) StartCall(ctx context.Context, params Params) (string, error) {
	if params.Mode == ModeGenerate && params.Workflow == "" {
		params.Workflow = m.workflow
	}
	if params.SessionNonce == "" {
		params.SessionNonce = uuid.NewString()
	}

	transport, sub, err := m.dial(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransportStart, err)
	}

	session := NewSession(transport, sub, m.saver, m.feedback, m.logger)
	if err := session.Start(ctx, params); err != nil {
		return "", err
	}

	id := uuid.NewString()
	runCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.sessions[id] = &runningCall{session: session, cancel: cancel}
	m.mu.Unlock()

	// The drain goroutine owns the session's lifetime: once the event stream
	// ends, the entry is evicted after the retention window so sessions that
	// finish without a client disconnect do not accumulate.
	go func() {
		session.Run(runCtx)
		cancel()
		time.AfterFunc(m.retain, func() {
			m.mu.Lock()
			delete(m.sessions, id)
			m.mu.Unlock()
		})
	}()

	m.logger.Info("call session started",
		zap.String("callId", id), zap.String("mode", string(params.Mode)))

	return id, nil
}

// Get returns the session for an active call.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rc, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return rc.session, true
}

// Disconnect ends an active call and returns the post-call redirect.
func (m *Manager) Disconnect(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	rc, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return "", ErrCallNotFound
	}

	err := rc.session.Disconnect(ctx)
	rc.cancel()

	m.logger.Info("call session ended", zap.String("callId", id))
	return rc.session.Redirect(), err
}
