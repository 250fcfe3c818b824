package models

import "time"

// Interview is a generated interview definition owned by a single user.
// It is immutable after creation except for the Finalized marker.
type Interview struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Role      string    `json:"role" bson:"role"`
	Level     string    `json:"level" bson:"level"`
	Techstack []string  `json:"techstack" bson:"techstack"`
	Type      string    `json:"type" bson:"type"`
	Questions []string  `json:"questions" bson:"questions"`
	Finalized bool      `json:"finalized" bson:"finalized"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Feedback is the scored assessment of one completed interview.
// At most one Feedback exists per (interviewId, userId) pair.
type Feedback struct {
	ID                  string          `json:"id" bson:"_id"`
	InterviewID         string          `json:"interviewId" bson:"interviewId"`
	UserID              string          `json:"userId" bson:"userId"`
	TotalScore          int             `json:"totalScore" bson:"totalScore"`
	CategoryScores      []CategoryScore `json:"categoryScores" bson:"categoryScores"`
	Strengths           []string        `json:"strengths" bson:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement" bson:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment" bson:"finalAssessment"`
	CreatedAt           time.Time       `json:"createdAt" bson:"createdAt"`
}

// CategoryScore is one scored dimension of a feedback breakdown.
type CategoryScore struct {
	Name    string `json:"name" bson:"name"`
	Score   int    `json:"score" bson:"score"`
	Comment string `json:"comment" bson:"comment"`
}

// TranscriptMessage is a single role-tagged utterance collected during a call.
type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// InterviewMetadata is the set of fields the voice agent collects before an
// interview definition can be generated.
type InterviewMetadata struct {
	Type      string `json:"type"`
	Role      string `json:"role"`
	Level     string `json:"level"`
	Techstack string `json:"techstack"`
	Amount    int    `json:"amount"`
}

// Complete reports whether all five metadata fields have been collected.
func (m InterviewMetadata) Complete() bool {
	return m.Type != "" && m.Role != "" && m.Level != "" && m.Techstack != "" && m.Amount > 0
}
