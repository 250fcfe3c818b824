package models

import (
	"errors"
	"testing"
)

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var er *ErrorResponse
	if !errors.As(err, &er) {
		t.Fatalf("expected *ErrorResponse, got %T", err)
	}
	return er.Code
}

func TestSignUpRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		req      SignUpRequest
		wantCode string
	}{
		{"valid", SignUpRequest{Name: "Alice", Email: "alice@example.com", Password: "longenough"}, ""},
		{"missing name", SignUpRequest{Email: "alice@example.com", Password: "longenough"}, "missing_name"},
		{"blank name", SignUpRequest{Name: "   ", Email: "alice@example.com", Password: "longenough"}, "missing_name"},
		{"missing email", SignUpRequest{Name: "Alice", Password: "longenough"}, "missing_email"},
		{"invalid email", SignUpRequest{Name: "Alice", Email: "not-an-email", Password: "longenough"}, "invalid_email"},
		{"short password", SignUpRequest{Name: "Alice", Email: "alice@example.com", Password: "short"}, "weak_password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if got := errorCode(t, err); got != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, got)
			}
		})
	}
}

func TestGenerateInterviewRequestValidate(t *testing.T) {
	valid := func() GenerateInterviewRequest {
		return GenerateInterviewRequest{Type: "technical", Role: "backend", Level: "mid", Techstack: "go", Amount: 5}
	}

	t.Run("valid", func(t *testing.T) {
		req := valid()
		if err := req.Validate(); err != nil {
			t.Fatalf("expected valid, got %v", err)
		}
	})

	t.Run("type defaults to mixed", func(t *testing.T) {
		req := valid()
		req.Type = ""
		if err := req.Validate(); err != nil {
			t.Fatalf("expected valid, got %v", err)
		}
		if req.Type != "mixed" {
			t.Fatalf("expected mixed, got %q", req.Type)
		}
	})

	t.Run("amount bounds", func(t *testing.T) {
		for _, amount := range []int{0, -1, 21} {
			req := valid()
			req.Amount = amount
			if got := errorCode(t, req.Validate()); got != "invalid_amount" {
				t.Fatalf("amount %d: expected invalid_amount, got %q", amount, got)
			}
		}
	})

	t.Run("missing role", func(t *testing.T) {
		req := valid()
		req.Role = ""
		if got := errorCode(t, req.Validate()); got != "missing_role" {
			t.Fatalf("expected missing_role, got %q", got)
		}
	})
}

func TestStartCallRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		req      StartCallRequest
		wantCode string
	}{
		{"generate", StartCallRequest{Mode: "generate"}, ""},
		{"conduct with id", StartCallRequest{Mode: "conduct", InterviewID: "i-1"}, ""},
		{"conduct without id", StartCallRequest{Mode: "conduct"}, "missing_interview_id"},
		{"unknown mode", StartCallRequest{Mode: "broadcast"}, "invalid_mode"},
		{"empty mode", StartCallRequest{}, "invalid_mode"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if got := errorCode(t, err); got != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, got)
			}
		})
	}
}

func TestCreateFeedbackRequestValidate(t *testing.T) {
	transcript := []TranscriptMessage{{Role: RoleUser, Content: "hi"}}

	tests := []struct {
		name     string
		req      CreateFeedbackRequest
		wantCode string
	}{
		{"valid", CreateFeedbackRequest{InterviewID: "i-1", Transcript: transcript}, ""},
		{"missing interview id", CreateFeedbackRequest{Transcript: transcript}, "missing_interview_id"},
		{"empty transcript", CreateFeedbackRequest{InterviewID: "i-1"}, "empty_transcript"},
		{
			"bad role",
			CreateFeedbackRequest{InterviewID: "i-1", Transcript: []TranscriptMessage{{Role: "narrator", Content: "x"}}},
			"invalid_transcript_role",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if got := errorCode(t, err); got != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, got)
			}
		})
	}
}

func TestInterviewMetadataComplete(t *testing.T) {
	full := InterviewMetadata{Type: "technical", Role: "backend", Level: "mid", Techstack: "go", Amount: 3}
	if !full.Complete() {
		t.Fatal("expected complete")
	}

	tests := []struct {
		name   string
		mutate func(*InterviewMetadata)
	}{
		{"no type", func(m *InterviewMetadata) { m.Type = "" }},
		{"no role", func(m *InterviewMetadata) { m.Role = "" }},
		{"no level", func(m *InterviewMetadata) { m.Level = "" }},
		{"no techstack", func(m *InterviewMetadata) { m.Techstack = "" }},
		{"zero amount", func(m *InterviewMetadata) { m.Amount = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := full
			tc.mutate(&m)
			if m.Complete() {
				t.Fatal("expected incomplete")
			}
		})
	}
}
