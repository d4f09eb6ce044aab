package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/csy100/touch-api/config"
	"github.com/csy100/touch-api/internal/jsonlog"
)

func newTestHandler() *Handler {
	return New(config.Config{}, jsonlog.New(io.Discard, jsonlog.LevelOff), nil)
}

func TestEncodeJSONWrapsPayloadInEnvelope(t *testing.T) {
	h := newTestHandler()
	w := httptest.NewRecorder()

	err := h.encodeJSON(w, 201, envelope{"comment": map[string]int{"id": 7}}, nil)
	if err != nil {
		t.Fatalf("encodeJSON failed: %v", err)
	}
	if w.Code != 201 {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var body struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Code != 201 || body.Message != "success" {
		t.Errorf("unexpected envelope: %+v", body)
	}
	if _, ok := body.Data["comment"]; !ok {
		t.Errorf("expected comment payload in data, got %+v", body.Data)
	}
}

func TestErrorResponseCarriesNullData(t *testing.T) {
	h := newTestHandler()
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/v1/comments", nil)

	h.notFoundResponse(w, r)

	var body struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Code != 404 || body.Data != nil {
		t.Errorf("unexpected envelope: %+v", body)
	}
	if body.Message == "" || body.Message == "success" {
		t.Errorf("expected error message, got %q", body.Message)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"well formed", `{"content": "hello"}`, ""},
		{"empty body", ``, "body must not be empty"},
		{"badly formed", `{"content":`, "badly-formed JSON"},
		{"unknown field", `{"nope": 1}`, "unknown key"},
		{"wrong type", `{"content": 7}`, "incorrect JSON type"},
		{"multiple values", `{"content": "a"}{"content": "b"}`, "single JSON value"},
	}
	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				Content string `json:"content"`
			}
			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/v1/comments", strings.NewReader(tt.body))
			err := h.decodeJSON(w, r, &dst)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("decodeJSON failed: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReadQueryHelpers(t *testing.T) {
	h := newTestHandler()
	qs := url.Values{}
	qs.Set("page", "3")
	qs.Set("rootId", "9000000000")
	qs.Set("keyword", "booth 5")
	qs.Set("bogus", "abc")

	if got := h.readInt(qs, "page", 1); got != 3 {
		t.Errorf("readInt(page) = %d, want 3", got)
	}
	if got := h.readInt(qs, "limit", 20); got != 20 {
		t.Errorf("readInt default = %d, want 20", got)
	}
	if got := h.readInt(qs, "bogus", 1); got != 1 {
		t.Errorf("readInt malformed = %d, want default 1", got)
	}
	if got := h.readInt64(qs, "rootId", 0); got != 9000000000 {
		t.Errorf("readInt64(rootId) = %d, want 9000000000", got)
	}
	if got := h.readString(qs, "keyword", ""); got != "booth 5" {
		t.Errorf("readString(keyword) = %q", got)
	}
}

func TestReadBearerToken(t *testing.T) {
	h := newTestHandler()
	r := httptest.NewRequest("POST", "/v1/auth/logout", nil)
	if got := h.readBearerToken(r); got != "" {
		t.Errorf("expected empty token, got %q", got)
	}
	r.Header.Set("Authorization", "Bearer at-123")
	if got := h.readBearerToken(r); got != "at-123" {
		t.Errorf("expected at-123, got %q", got)
	}
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if got := h.readBearerToken(r); got != "" {
		t.Errorf("expected empty token for basic auth, got %q", got)
	}
}
