package http

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestJoin(t *testing.T) {
	env := newTestEnv(t)

	// Test 1: valid join
	resp := env.do(t, http.MethodPost, "/participants", `{"name":"alice"}`, "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var joined ParticipantResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &joined); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if joined.Name != "alice" {
		t.Errorf("expected name 'alice', got %q", joined.Name)
	}
	if joined.LastSeen == 0 {
		t.Error("expected a non-zero lastSeen")
	}

	// Test 2: duplicate name
	resp = env.do(t, http.MethodPost, "/participants", `{"name":"alice"}`, "")
	if resp.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d: %s", resp.Code, resp.Body.String())
	}

	// Test 3: shape-invalid bodies
	for _, body := range []string{`{"name":""}`, `{}`, `not json`} {
		resp = env.do(t, http.MethodPost, "/participants", body, "")
		if resp.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %q: expected status 422, got %d", body, resp.Code)
		}
	}
}

func TestJoinAppendsStatusNotice(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/participants", `{"name":"alice"}`, "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = env.do(t, http.MethodGet, "/messages", "", "bob")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var msgs []MessageResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	notice := msgs[0]
	if notice.From != "alice" || notice.To != "Todos" || notice.Kind != "status" {
		t.Errorf("unexpected join notice: %+v", notice)
	}
	if notice.Text != "entra na sala..." {
		t.Errorf("expected join notice text, got %q", notice.Text)
	}
}

func TestListParticipants(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/participants", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "[]" {
		t.Errorf("expected empty list, got %s", body)
	}

	for _, name := range []string{"alice", "bob"} {
		resp = env.do(t, http.MethodPost, "/participants", `{"name":"`+name+`"}`, "")
		if resp.Code != http.StatusCreated {
			t.Fatalf("join %s: expected status 201, got %d", name, resp.Code)
		}
	}

	resp = env.do(t, http.MethodGet, "/participants", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var participants []ParticipantResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &participants); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(participants))
	}
	if participants[0].Name != "alice" || participants[1].Name != "bob" {
		t.Errorf("unexpected participant order: %+v", participants)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got %q", resp.Body.String())
	}
}
