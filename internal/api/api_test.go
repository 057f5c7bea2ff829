package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteErrorMapsStatus(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{BadRequest("bad"), http.StatusBadRequest},
		{Unauthorized("no"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(rec, tc.err)
		if rec.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"success":false`) {
			t.Fatalf("expected failure envelope, got %s", rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), tc.err.Message) {
			t.Fatalf("expected message %q in body %s", tc.err.Message, rec.Body.String())
		}
	}
}

func TestWriteErrorWrapped(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("handler: %w", NotFound("gone")))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected wrapped *Error to keep its status, got %d", rec.Code)
	}
}

func TestWriteErrorFallsBackTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("database exploded"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Internal Server Error") {
		t.Fatalf("expected generic message, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "exploded") {
		t.Fatal("internal error detail must not leak")
	}
}
