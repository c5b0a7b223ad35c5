package server

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestLessonStateLifecycle(t *testing.T) {
	_, router := newTestServer(t, nil, nil)
	reg := registerUser(t, router)

	// Nothing saved yet.
	w := doJSON(router, http.MethodGet, "/api/lessons/Biology", reg.Token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 before save, got %d", w.Code)
	}

	w = doJSON(router, http.MethodPut, "/api/lessons/Biology", reg.Token, map[string]string{
		"html": "<p>lesson body</p>",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("save: expected 204, got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodGet, "/api/lessons/Biology", reg.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["html"] != "<p>lesson body</p>" {
		t.Errorf("unexpected html %q", body["html"])
	}

	w = doJSON(router, http.MethodDelete, "/api/lessons/Biology", reg.Token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = doJSON(router, http.MethodGet, "/api/lessons/Biology", reg.Token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestLessonStateRequiresAuth(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	w := doJSON(router, http.MethodGet, "/api/lessons/Biology", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
