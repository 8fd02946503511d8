package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// NewRequest builds a request with no body.
func NewRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, target, http.NoBody)
}

// NewRequestWithBody builds a JSON request carrying a raw body, for payloads
// that must reach the decoder exactly as written.
func NewRequestWithBody(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	return withJSON(httptest.NewRequest(method, target, strings.NewReader(body)))
}

// NewJSONRequest marshals v and builds a JSON request from it.
func NewJSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode request body: %v", err)
	}
	return withJSON(httptest.NewRequest(method, target, bytes.NewReader(raw)))
}

// WithBearer sets an Authorization header carrying token.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// DoRequest serves req against h and returns the recorded response.
func DoRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// AssertStatusAndError fails t unless the response has the given status and
// its JSON error envelope carries code.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	raw, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode error envelope %q: %v", raw, err)
	}
	if envelope.Error != code {
		t.Fatalf("error = %q, want %q", envelope.Error, code)
	}
}

func withJSON(req *http.Request) *http.Request {
	req.Header.Set("Content-Type", "application/json")
	return req
}
