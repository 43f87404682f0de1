package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfAndHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		kind   ErrorKind
		status int
	}{
		{Validationf("bad dates"), KindValidation, http.StatusBadRequest},
		{NotFoundf("booking %d not found", 7), KindNotFound, http.StatusNotFound},
		{Conflictf("no availability"), KindConflict, http.StatusConflict},
		{Statef("not pending"), KindState, http.StatusUnprocessableEntity},
		{Storage("write failed", errors.New("disk full")), KindStorage, http.StatusInternalServerError},
		{errors.New("some driver error"), KindStorage, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.kind {
			t.Errorf("KindOf(%v) = %s, want %s", tc.err, got, tc.kind)
		}
		if got := HTTPStatus(tc.err); got != tc.status {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("recompute hostel 3: %w", NotFoundf("hostel 3 not found"))
	if KindOf(err) != KindNotFound {
		t.Fatalf("KindOf wrapped = %s, want not_found", KindOf(err))
	}
	if HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("HTTPStatus wrapped = %d, want 404", HTTPStatus(err))
	}
}

func TestStorageUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("failed to load room", cause)
	if !errors.Is(err, cause) {
		t.Fatal("storage error must wrap its cause")
	}
}
