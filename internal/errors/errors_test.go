package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "resource not found"},
			want: "resource not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to process",
				Cause:   errors.New("underlying error"),
			},
			want: "failed to process: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeStorage, "insert failed")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(%v, cause) = false", err)
	}
	if Wrap(nil, ErrCodeStorage, "x") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", Validation("placeName es requerido"), IsValidation},
		{"upstream", Upstream("boom"), IsUpstream},
		{"upstream status", UpstreamStatus(502, "bad gateway"), IsUpstream},
		{"storage", Storage("denied"), IsStorage},
		{"not found", NotFound("missing"), IsNotFound},
		{"unauthorized", Unauthorized("no session"), IsUnauthorized},
		{"wrapped upstream", fmt.Errorf("geocode: %w", Upstream("boom")), IsUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
		})
	}

	if IsUpstream(Validation("x")) {
		t.Error("validation error reported as upstream")
	}
	if IsStorage(errors.New("plain")) {
		t.Error("plain error reported as storage")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(fmt.Errorf("wrap: %w", Storage("x"))); got != ErrCodeStorage {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeStorage)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"app error hides cause", Wrap(errors.New("dial tcp: refused"), ErrCodeUpstream, "Error al conectar"), "Error al conectar"},
		{"wrapped app error", fmt.Errorf("ctx: %w", Validation("placeName es requerido")), "placeName es requerido"},
		{"plain error", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpstreamStatus_CarriesStatus(t *testing.T) {
	err := UpstreamStatus(403, "forbidden")
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("expected AppError")
	}
	if appErr.Status != 403 {
		t.Errorf("Status = %d, want 403", appErr.Status)
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("placeName es requerido"), 400},
		{Unauthorized("no session"), 401},
		{NotFound("missing"), 404},
		{fmt.Errorf("wrapped: %w", Upstream("ors down")), 500},
		{Storage("insert failed"), 500},
		{errors.New("plain"), 500},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
