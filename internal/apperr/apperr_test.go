package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"auth", Auth("nope"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"dispatch", Dispatch("mail failed", errors.New("smtp down")), http.StatusInternalServerError},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("context: %w", NotFound("missing")), http.StatusNotFound},
		{"plain error", errors.New("raw"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusOf(tc.err); got != tc.want {
				t.Fatalf("StatusOf: got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMessageOf_NeverLeaksInternals(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"))
	if msg := MessageOf(err); msg != "Internal server error" {
		t.Fatalf("unexpected message: %q", msg)
	}
	// errors outside the taxonomy map to the generic message too
	if msg := MessageOf(errors.New("driver: bad conn")); msg != "Internal server error" {
		t.Fatalf("unexpected message for plain error: %q", msg)
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Auth("bad token"))
	if !IsKind(err, KindAuth) {
		t.Fatalf("expected KindAuth")
	}
	if IsKind(err, KindValidation) {
		t.Fatalf("did not expect KindValidation")
	}
}
