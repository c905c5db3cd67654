package serverutils

import (
	"errors"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSuccessResponse(t *testing.T) {
	resp := SuccessResponse("session created", map[string]string{"session_id": "sess-1"})

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Code != fiber.StatusOK {
		t.Errorf("Code = %d, want %d", resp.Code, fiber.StatusOK)
	}
	if resp.Message != "session created" {
		t.Errorf("Message = %q", resp.Message)
	}
	if resp.Data["session_id"] != "sess-1" {
		t.Errorf("Data = %v", resp.Data)
	}
}

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse(fiber.StatusNotFound, "session not found")

	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.Code != fiber.StatusNotFound {
		t.Errorf("Code = %d, want %d", resp.Code, fiber.StatusNotFound)
	}
	if resp.Data != nil {
		t.Errorf("Data = %v, want nil", resp.Data)
	}
}

func TestValidateRequest(t *testing.T) {
	type createSessionRequest struct {
		DocumentType string `validate:"required"`
		Email        string `validate:"omitempty,email"`
	}

	tests := []struct {
		name     string
		req      createSessionRequest
		wantErr  bool
		wantRule string
	}{
		{
			name: "valid request",
			req:  createSessionRequest{DocumentType: "general_model_card"},
		},
		{
			name:     "missing required field",
			req:      createSessionRequest{},
			wantErr:  true,
			wantRule: "required",
		},
		{
			name:     "malformed email",
			req:      createSessionRequest{DocumentType: "general_model_card", Email: "not-an-email"},
			wantErr:  true,
			wantRule: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateRequest() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateRequest() error = nil, want error")
			}
			var fiberErr *fiber.Error
			if !errors.As(err, &fiberErr) {
				t.Fatalf("error type = %T, want *fiber.Error", err)
			}
			if fiberErr.Code != fiber.StatusBadRequest {
				t.Errorf("code = %d, want %d", fiberErr.Code, fiber.StatusBadRequest)
			}
			if !strings.Contains(fiberErr.Message, tt.wantRule) {
				t.Errorf("message = %q, want rule %q mentioned", fiberErr.Message, tt.wantRule)
			}
		})
	}
}
