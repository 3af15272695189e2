package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorText(t *testing.T) {
	cause := errors.New("unexpected EOF")
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidInput, "row %d: %s", 3, "short"), "INVALID_INPUT: row 3: short"},
		{Wrap(ErrCodeInvalidInput, cause, "decode response"), "INVALID_INPUT: decode response: unexpected EOF"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "write cache")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(fmt.Errorf("render: %w", err), cause) {
		t.Error("cause not reachable through an outer wrap")
	}
}

func TestCodeLookup(t *testing.T) {
	inner := New(ErrCodeInvalidInput, "inner")
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"coded", New(ErrCodeInvalidQueryShape, "no measure"), ErrCodeInvalidQueryShape, "no measure"},
		{"fmt wrapped", fmt.Errorf("update: %w", inner), ErrCodeInvalidInput, "inner"},
		{"outermost wins", Wrap(ErrCodeInternal, inner, "outer"), ErrCodeInternal, "outer"},
		{"plain", errors.New("plain"), "", "plain"},
		{"nil", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeChartClosed) {
				t.Error("Is(CHART_CLOSED) = true")
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeInvalidQueryShape, "bad"), true},
		{New(ErrCodeInvalidConfig, "bad"), true},
		{fmt.Errorf("update: %w", New(ErrCodeInvalidColor, "bad")), true},
		{New(ErrCodeChartClosed, "closed"), false},
		{New(ErrCodeNotFound, "missing"), false},
		{errors.New("plain"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsValidation(tt.err); got != tt.want {
			t.Errorf("IsValidation(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		ErrCodeInvalidInput:      http.StatusBadRequest,
		ErrCodeInvalidFormat:     http.StatusBadRequest,
		ErrCodeInvalidQueryShape: http.StatusUnprocessableEntity,
		ErrCodeInvalidColor:      http.StatusUnprocessableEntity,
		ErrCodeInvalidURL:        http.StatusUnprocessableEntity,
		ErrCodeInvalidConfig:     http.StatusUnprocessableEntity,
		ErrCodeNotFound:          http.StatusNotFound,
		ErrCodeChartClosed:       http.StatusGone,
		ErrCodeCanceled:          StatusClientClosedRequest,
		ErrCodeUnsupported:       http.StatusNotImplemented,
		ErrCodeInternal:          http.StatusInternalServerError,
		"":                       http.StatusInternalServerError,
		"SOMETHING_ELSE":         http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := code.HTTPStatus(); got != want {
			t.Errorf("%q.HTTPStatus() = %d, want %d", code, got, want)
		}
	}
}

func TestEveryCodeIsMapped(t *testing.T) {
	for _, code := range []Code{
		ErrCodeInvalidInput, ErrCodeInvalidQueryShape, ErrCodeInvalidFormat,
		ErrCodeInvalidConfig, ErrCodeInvalidColor, ErrCodeInvalidURL,
		ErrCodeNotFound, ErrCodeChartClosed, ErrCodeCanceled, ErrCodeInternal,
		ErrCodeUnsupported,
	} {
		if _, ok := codes[code]; !ok {
			t.Errorf("%s has no entry in codes", code)
		}
	}
}
