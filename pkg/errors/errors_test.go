package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidAlgorithm, "unknown layout %q", "spiral"), `INVALID_ALGORITHM: unknown layout "spiral"`},
		{Wrap(ErrCodeSource, fs.ErrNotExist, "read notes of %s", "work"), "SOURCE: read notes of work: file does not exist"},
		{New(ErrCodeInternal, "boom"), "INTERNAL: boom"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsChain(t *testing.T) {
	err := Wrap(ErrCodeSource, fs.ErrPermission, "open vault")
	if !stderrors.Is(err, fs.ErrPermission) {
		t.Error("cause lost from chain")
	}
	if stderrors.Unwrap(err) != fs.ErrPermission {
		t.Errorf("Unwrap() = %v", stderrors.Unwrap(err))
	}

	var e *Error
	outer := fmt.Errorf("layout: %w", err)
	if !As(outer, &e) || e.Code != ErrCodeSource {
		t.Errorf("As through fmt wrap: %v", e)
	}
}

func TestCodeLookups(t *testing.T) {
	nested := Wrap(ErrCodeGroupNotFound, New(ErrCodeInvalidInput, "inner"), "group %q", "x")
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
		status  int
	}{
		{"coded", New(ErrCodeInvalidCanvas, "width must be positive"), ErrCodeInvalidCanvas, "width must be positive", http.StatusBadRequest},
		{"outermost wins", nested, ErrCodeGroupNotFound, `group "x"`, http.StatusNotFound},
		{"behind fmt", fmt.Errorf("serve: %w", New(ErrCodeSessionNotFound, "gone")), ErrCodeSessionNotFound, "gone", http.StatusNotFound},
		{"source", New(ErrCodeSource, "redis down"), ErrCodeSource, "redis down", http.StatusBadGateway},
		{"unsupported", New(ErrCodeUnsupported, "png"), ErrCodeUnsupported, "png", http.StatusNotImplemented},
		{"internal", New(ErrCodeInternal, "x"), ErrCodeInternal, "x", http.StatusInternalServerError},
		{"config", New(ErrCodeInvalidConfig, "x"), ErrCodeInvalidConfig, "x", http.StatusInternalServerError},
		{"plain", stderrors.New("plain"), "", "plain", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
			if got := HTTPStatus(tt.err); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
		})
	}

	if Is(nested, ErrCodeInvalidInput) {
		t.Error("Is matched an inner code")
	}
	if Is(nil, ErrCodeInvalidInput) || GetCode(nil) != "" {
		t.Error("nil error has a code")
	}
}

func ExampleIs() {
	err := Wrap(ErrCodeGroupNotFound, fs.ErrNotExist, "group %q", "archive")
	fmt.Println(Is(err, ErrCodeGroupNotFound), HTTPStatus(err))
	fmt.Println(UserMessage(err))
	// Output:
	// true 404
	// group "archive"
}
