package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidRequest, http.StatusBadRequest},
		{CodeCompletionFailed, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := New(tt.code, "x").HTTPStatus(); got != tt.want {
			t.Fatalf("%s: got %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestFrom(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("handler: %w", Wrap(CodeInvalidRequest, "query is required", cause))

	got := From(wrapped)
	if got.Code != CodeInvalidRequest || !errors.Is(got, cause) {
		t.Fatalf("expected to unwrap the classified error, got %+v", got)
	}
	if got.Error() != "query is required: boom" {
		t.Fatalf("unexpected message %q", got.Error())
	}

	if From(cause).Code != CodeInternal {
		t.Fatalf("unclassified errors must map to internal")
	}
}
