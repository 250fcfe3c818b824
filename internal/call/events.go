package call

import (
	"encoding/json"
	"fmt"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
)

// Event kinds emitted by the call transport.
const (
	EventCallStart   = "call-start"
	EventCallEnd     = "call-end"
	EventSpeechStart = "speech-start"
	EventSpeechEnd   = "speech-end"
	EventError       = "error"
	EventMessage     = "message"
)

// Message payload kinds carried by EventMessage.
const (
	MessageTranscript         = "transcript"
	MessageInterviewGenerated = "interview-generated"
)

// Event is one validated transport event. Exactly one of the payload
// pointers is set, matching Kind.
type Event interface {
	Kind() string
}

type CallStartEvent struct{}

func (CallStartEvent) Kind() string { return EventCallStart }

type CallEndEvent struct{}

func (CallEndEvent) Kind() string { return EventCallEnd }

type SpeechStartEvent struct{}

func (SpeechStartEvent) Kind() string { return EventSpeechStart }

type SpeechEndEvent struct{}

func (SpeechEndEvent) Kind() string { return EventSpeechEnd }

type ErrorEvent struct {
	Message string
}

func (ErrorEvent) Kind() string { return EventError }

// TranscriptEvent carries one transcript fragment. Only fragments with
// TranscriptType "final" are appended to the session transcript.
type TranscriptEvent struct {
	Role           string
	TranscriptType string
	Transcript     string
}

func (TranscriptEvent) Kind() string { return EventMessage }

// IsFinal reports whether this fragment is a final transcript.
func (e TranscriptEvent) IsFinal() bool { return e.TranscriptType == "final" }

// InterviewGeneratedEvent is the structured confirmation that the voice agent
// has collected the full interview metadata.
type InterviewGeneratedEvent struct {
	Data models.InterviewMetadata
}

func (InterviewGeneratedEvent) Kind() string { return EventMessage }

// wireEvent is the envelope shape the transport sends.
type wireEvent struct {
	Type    string          `json:"type"`
	Error   string          `json:"error,omitempty"`
	Message *wireMessage    `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

type wireMessage struct {
	Type           string                   `json:"type"`
	TranscriptType string                   `json:"transcriptType,omitempty"`
	Role           string                   `json:"role,omitempty"`
	Transcript     string                   `json:"transcript,omitempty"`
	Data           models.InterviewMetadata `json:"data,omitempty"`
}

// DecodeEvent validates a raw transport payload and returns the typed event.
// Unknown or malformed shapes are rejected rather than propagated inward.
func DecodeEvent(raw []byte) (Event, error) {
	var env wireEvent
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed transport event: %w", err)
	}

	switch env.Type {
	case EventCallStart:
		return CallStartEvent{}, nil
	case EventCallEnd:
		return CallEndEvent{}, nil
	case EventSpeechStart:
		return SpeechStartEvent{}, nil
	case EventSpeechEnd:
		return SpeechEndEvent{}, nil
	case EventError:
		return ErrorEvent{Message: env.Error}, nil
	case EventMessage:
		if env.Message == nil {
			return nil, fmt.Errorf("message event without payload")
		}
		switch env.Message.Type {
		case MessageTranscript:
			switch env.Message.Role {
			case models.RoleUser, models.RoleAssistant, models.RoleSystem:
			default:
				return nil, fmt.Errorf("transcript with unknown role %q", env.Message.Role)
			}
			return TranscriptEvent{
				Role:           env.Message.Role,
				TranscriptType: env.Message.TranscriptType,
				Transcript:     env.Message.Transcript,
			}, nil
		case MessageInterviewGenerated:
			return InterviewGeneratedEvent{Data: env.Message.Data}, nil
		default:
			return nil, fmt.Errorf("unknown message payload type %q", env.Message.Type)
		}
	default:
		return nil, fmt.Errorf("unknown transport event type %q", env.Type)
	}
}
