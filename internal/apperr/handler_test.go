package apperr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func doRequest(t *testing.T, err error) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = EchoErrorHandler(zerolog.Nop())
	e.GET("/api/v1/thing", func(c echo.Context) error { return err })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not the error envelope: %v\n%s", err, rec.Body.String())
	}
	return rec, body
}

func TestEnvelopeForClassifiedError(t *testing.T) {
	rec, body := doRequest(t, NotFound("Patient"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if body.Status != "error" {
		t.Errorf("status field = %q", body.Status)
	}
	if body.Message != "Patient not found" {
		t.Errorf("message = %q", body.Message)
	}
	if body.ErrorCode != "RESOURCE_NOT_FOUND" {
		t.Errorf("error_code = %q", body.ErrorCode)
	}
	if body.Path != "/api/v1/thing" {
		t.Errorf("path = %q", body.Path)
	}
	if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339", body.Timestamp)
	}
}

// A rejected over-budget request renders through the same envelope as every
// other classified error.
func TestEnvelopeForRateLimited(t *testing.T) {
	rec, body := doRequest(t, RateLimited("Rate limit exceeded"))

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if body.Status != "error" {
		t.Errorf("status field = %q", body.Status)
	}
	if body.Message != "Rate limit exceeded" {
		t.Errorf("message = %q", body.Message)
	}
	if body.ErrorCode != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error_code = %q", body.ErrorCode)
	}
}

// Unclassified errors must not leak their text to the client.
func TestEnvelopeForUnclassifiedError(t *testing.T) {
	rec, body := doRequest(t, echo.NewHTTPError(http.StatusTeapot).SetInternal(nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if body.Status != "error" {
		t.Errorf("status field = %q", body.Status)
	}
}

func TestEnvelopeOpaque500(t *testing.T) {
	rec, body := doRequest(t, errTest)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if body.Message != "Internal server error" {
		t.Errorf("message = %q, internal detail leaked", body.Message)
	}
	if body.ErrorCode != "" {
		t.Errorf("error_code = %q, want empty", body.ErrorCode)
	}
}

func TestEnvelopeForRouteMiss(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = EchoErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("route miss did not render the envelope: %s", rec.Body.String())
	}
	if body.Status != "error" || body.Path != "/nope" {
		t.Errorf("body = %+v", body)
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "raw driver detail: secret dsn" }
