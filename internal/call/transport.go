package call

import (
	"context"
	"errors"
)

// ErrTransportStart signals the transport could not open a session. The
// session reverts to Inactive and the user may retry.
var ErrTransportStart = errors.New("transport failed to start call")

// StartOptions describes the session the transport should open.
// Descriptor names the agent workflow or assistant; VariableValues are
// substituted into the agent's conversation template.
type StartOptions struct {
	Descriptor     string
	VariableValues map[string]string
}

// Transport is the opaque bidirectional voice/event channel used to run an
// interview conversation. Implementations deliver events through a
// Subscription; the session owns one transport handle for its lifetime.
type Transport interface {
	Start(ctx context.Context, opts StartOptions) error
	Stop(ctx context.Context) error
}

// Subscription is a scoped handle on the transport's event feed. Close
// releases it; it must be released on every exit path, including early
// start failure.
type Subscription interface {
	Events() <-chan Event
	Close() error
}
