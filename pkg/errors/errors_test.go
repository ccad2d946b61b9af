package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidCoordinate, "negative coordinate: %d", -3)

	if err.Code != ErrCodeInvalidCoordinate {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidCoordinate)
	}
	if err.Message != "negative coordinate: -3" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
	want := "INVALID_COORDINATE: negative coordinate: -3"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeInvalidRecord, cause, "decode layout %s", "marina")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{
			name: "MatchingCode",
			err:  New(ErrCodeModuleNotFound, "no such module"),
			code: ErrCodeModuleNotFound,
			want: true,
		},
		{
			name: "DifferentCode",
			err:  New(ErrCodeModuleNotFound, "no such module"),
			code: ErrCodeInvalidCoordinate,
			want: false,
		},
		{
			name: "WrappedInPlainError",
			err:  fmt.Errorf("load: %w", New(ErrCodeLayoutNotFound, "missing")),
			code: ErrCodeLayoutNotFound,
			want: true,
		},
		{
			name: "PlainError",
			err:  stderrors.New("boring"),
			code: ErrCodeInternal,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodePlacementRejected, "nope")); got != ErrCodePlacementRejected {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "width must be positive")
	if got := UserMessage(err); got != "width must be positive" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("disk full")
	if got := UserMessage(plain); got != "disk full" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
