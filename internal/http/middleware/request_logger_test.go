package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestLoggerPassesThrough(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("body"))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/submit-lead", nil)
	rec := httptest.NewRecorder()

	RequestLogger(nil)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", rec.Code)
	}
	if rec.Body.String() != "body" {
		t.Fatalf("expected body to pass through, got %q", rec.Body.String())
	}
}

func TestStatusWriterRecordsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	sw.WriteHeader(http.StatusUnprocessableEntity)

	if sw.status != http.StatusUnprocessableEntity {
		t.Fatalf("expected recorded status 422, got %d", sw.status)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected underlying writer status 422, got %d", rec.Code)
	}
}
