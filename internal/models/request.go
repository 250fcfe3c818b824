package models

import (
	"net/mail"
	"strings"
)

type SignUpRequest struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// implements the Validator interface
func (r *SignUpRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ErrorResponse{Code: "missing_name", Message: "Name field is required"}
	}
	if r.Email == "" {
		return &ErrorResponse{Code: "missing_email", Message: "Email field is required"}
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return &ErrorResponse{Code: "invalid_email", Message: "Email is not a valid address"}
	}
	if len(r.Password) < 8 {
		return &ErrorResponse{Code: "weak_password", Message: "Password must be at least 8 characters"}
	}
	return nil
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignInRequest) Validate() error {
	if r.Email == "" {
		return &ErrorResponse{Code: "missing_email", Message: "Email field is required"}
	}
	if r.Password == "" {
		return &ErrorResponse{Code: "missing_password", Message: "Password field is required"}
	}
	return nil
}

// GenerateInterviewRequest carries the metadata collected by the voice agent,
// from which a fresh interview definition is generated.
type GenerateInterviewRequest struct {
	Type      string `json:"type"`
	Role      string `json:"role"`
	Level     string `json:"level"`
	Techstack string `json:"techstack"`
	Amount    int    `json:"amount"`
	UserID    string `json:"userid"`
}

func (r *GenerateInterviewRequest) Validate() error {
	if r.Role == "" {
		return &ErrorResponse{Code: "missing_role", Message: "Role field is required"}
	}
	if r.Level == "" {
		return &ErrorResponse{Code: "missing_level", Message: "Level field is required"}
	}
	if r.Techstack == "" {
		return &ErrorResponse{Code: "missing_techstack", Message: "Techstack field is required"}
	}
	if r.Type == "" {
		r.Type = "mixed"
	}
	if r.Amount <= 0 || r.Amount > 20 {
		return &ErrorResponse{Code: "invalid_amount", Message: "Amount must be between 1 and 20"}
	}
	return nil
}

// Metadata converts the request into the collected-metadata shape.
func (r *GenerateInterviewRequest) Metadata() InterviewMetadata {
	return InterviewMetadata{
		Type:      r.Type,
		Role:      r.Role,
		Level:     r.Level,
		Techstack: r.Techstack,
		Amount:    r.Amount,
	}
}

// StartCallRequest opens a voice call session.
type StartCallRequest struct {
	Mode        string `json:"mode"`
	InterviewID string `json:"interviewId"`
}

func (r *StartCallRequest) Validate() error {
	switch r.Mode {
	case "generate":
	case "conduct":
		if r.InterviewID == "" {
			return &ErrorResponse{Code: "missing_interview_id", Message: "InterviewId is required in conduct mode"}
		}
	default:
		return &ErrorResponse{Code: "invalid_mode", Message: "Mode must be generate or conduct"}
	}
	return nil
}

// CreateFeedbackRequest asks for a transcript to be scored and persisted.
type CreateFeedbackRequest struct {
	InterviewID string              `json:"interviewId"`
	Transcript  []TranscriptMessage `json:"transcript"`
}

func (r *CreateFeedbackRequest) Validate() error {
	if r.InterviewID == "" {
		return &ErrorResponse{Code: "missing_interview_id", Message: "InterviewId field is required"}
	}
	if len(r.Transcript) == 0 {
		return &ErrorResponse{Code: "empty_transcript", Message: "Transcript must not be empty"}
	}
	for _, m := range r.Transcript {
		switch m.Role {
		case RoleUser, RoleAssistant, RoleSystem:
		default:
			return &ErrorResponse{Code: "invalid_transcript_role", Message: "Transcript role must be user, assistant or system"}
		}
	}
	return nil
}
