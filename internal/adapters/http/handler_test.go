package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/afterhack/afterhack-api/internal/adapters/http"
	"github.com/afterhack/afterhack-api/internal/adapters/llm"
	"github.com/afterhack/afterhack-api/internal/adapters/storage/memory"
	"github.com/afterhack/afterhack-api/internal/app/aisearch"
	"github.com/afterhack/afterhack-api/internal/app/chat"
	"github.com/afterhack/afterhack-api/internal/app/collab"
	"github.com/afterhack/afterhack-api/internal/app/profile"
	"github.com/afterhack/afterhack-api/internal/app/projects"
)

type testEnv struct {
	handler http.Handler
	llm     *llm.MockClient
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	mock := llm.NewMockClient(`[]`)
	users := memory.NewUserStore()
	projectStore := memory.NewProjectStore()
	requests := memory.NewRequestStore()

	handler := httpadapter.NewServer(
		aisearch.NewService(mock),
		chat.NewService(mock),
		memory.NewTranscriptStore(),
		collab.NewService(requests, users, projectStore),
		projects.NewService(projectStore),
		profile.NewService(users),
	)

	return &testEnv{handler: handler, llm: mock}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestServer(t)
	w := env.do(t, http.MethodGet, "/healthz", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAISearchEmptyProjectsShortCircuits(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/api/ai/search", map[string]any{
		"query":    "AI tools",
		"projects": []any{},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	resp := decode[map[string][]string](t, w)
	if got := resp["matchingIds"]; len(got) != 0 {
		t.Fatalf("expected empty matchingIds, got %v", got)
	}
	if env.llm.Calls() != 0 {
		t.Fatalf("gateway must not be called for empty projects, got %d calls", env.llm.Calls())
	}
}

func TestAISearchValidation(t *testing.T) {
	env := newTestServer(t)

	cases := []map[string]any{
		{"projects": []any{}},          // query missing
		{"query": "x"},                 // projects missing
		{"query": "", "projects": nil}, // both empty
	}
	for _, body := range cases {
		if w := env.do(t, http.MethodPost, "/api/ai/search", body); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v, got %d", body, w.Code)
		}
	}
}

func TestAISearchReturnsMatches(t *testing.T) {
	env := newTestServer(t)
	env.llm.Reply = `Here are your matches: ["p2"]`

	w := env.do(t, http.MethodPost, "/api/ai/search", map[string]any{
		"query": "health",
		"projects": []map[string]string{
			{"id": "p1", "title": "GreenRoute", "description": "routing"},
			{"id": "p2", "title": "MediTrack", "description": "medication reminders"},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	resp := decode[map[string][]string](t, w)
	if got := resp["matchingIds"]; len(got) != 1 || got[0] != "p2" {
		t.Fatalf("expected [p2], got %v", got)
	}
}

func TestAIChatReturnsText(t *testing.T) {
	env := newTestServer(t)
	env.llm.Reply = "Hi! How can I help?"

	w := env.do(t, http.MethodPost, "/api/ai/chat", map[string]any{
		"messages": []map[string]string{{"sender": "user", "text": "hi"}},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	resp := decode[map[string]string](t, w)
	if resp["text"] != "Hi! How can I help?" {
		t.Fatalf("unexpected text %q", resp["text"])
	}

	// Outbound payload: persona + the single user turn.
	if msgs := env.llm.LastMessages(); len(msgs) != 2 {
		t.Fatalf("expected 2 outbound messages, got %d", len(msgs))
	}
}

func TestAIChatValidation(t *testing.T) {
	env := newTestServer(t)

	if w := env.do(t, http.MethodPost, "/api/ai/chat", map[string]any{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing messages, got %d", w.Code)
	}
}

func TestAIChatRateLimitMapping(t *testing.T) {
	env := newTestServer(t)
	env.llm.Err = &llm.UpstreamError{StatusCode: http.StatusTooManyRequests, Body: "429 rate limited"}

	w := env.do(t, http.MethodPost, "/api/ai/chat", map[string]any{
		"messages": []map[string]string{{"sender": "user", "text": "hi"}},
	})

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	resp := decode[map[string]string](t, w)
	if resp["error"] != "Too many requests. Please wait a moment." {
		t.Fatalf("unexpected error message %q", resp["error"])
	}
}

func TestAIChatGenericFailureHidesUpstreamBody(t *testing.T) {
	env := newTestServer(t)
	env.llm.Err = &llm.UpstreamError{StatusCode: http.StatusBadGateway, Body: "internal provider detail"}

	w := env.do(t, http.MethodPost, "/api/ai/chat", map[string]any{
		"messages": []map[string]string{{"sender": "user", "text": "hi"}},
	})

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected upstream status to pass through, got %d", w.Code)
	}
	resp := decode[map[string]string](t, w)
	if resp["error"] != "Failed to generate chat response" {
		t.Fatalf("unexpected error message %q", resp["error"])
	}
	if bytes.Contains(w.Body.Bytes(), []byte("provider detail")) {
		t.Fatal("raw upstream body must not leak to the client")
	}
}

func TestChatSessionPersistsTranscript(t *testing.T) {
	env := newTestServer(t)
	env.llm.Reply = "Happy to help!"

	w := env.do(t, http.MethodPost, "/api/ai/chat/sessions/s1/messages", map[string]string{"text": "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("send: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	turn := decode[map[string]any](t, w)
	if turn["sender"] != "bot" || turn["text"] != "Happy to help!" {
		t.Fatalf("unexpected turn %v", turn)
	}

	w = env.do(t, http.MethodGet, "/api/ai/chat/sessions/s1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", w.Code)
	}
	var history struct {
		Messages []struct {
			Sender string `json:"sender"`
			Text   string `json:"text"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history.Messages) != 2 {
		t.Fatalf("expected user+bot turns, got %d", len(history.Messages))
	}
	if history.Messages[0].Sender != "user" || history.Messages[1].Sender != "bot" {
		t.Fatalf("unexpected transcript order %+v", history.Messages)
	}
}

func TestRequestLifecycle(t *testing.T) {
	env := newTestServer(t)

	// Seed the sender's profile so hydration has something to resolve.
	w := env.do(t, http.MethodPut, "/api/users/founder-1", map[string]any{
		"email":        "ada@example.com",
		"display_name": "Ada",
		"role":         "founder",
		"founder_profile": map[string]any{
			"company_name": "Lovelace Labs",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("seed user: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/requests", map[string]any{
		"from_user_id": "founder-1",
		"to_user_id":   "student-1",
		"type":         "intro",
		"message":      "Would love to chat about MediTrack",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("send: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	created := decode[map[string]any](t, w)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("expected a request id")
	}
	if created["status"] != "pending" {
		t.Fatalf("expected pending, got %v", created["status"])
	}

	// Recipient sees it hydrated with the sender's profile.
	w = env.do(t, http.MethodGet, "/api/requests?user=student-1&direction=received", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var listResp struct {
		Requests []struct {
			ID              string `json:"id"`
			FromUserDetails *struct {
				DisplayName string `json:"display_name"`
			} `json:"from_user_details"`
		} `json:"requests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listResp.Requests) != 1 || listResp.Requests[0].ID != id {
		t.Fatalf("expected the sent request, got %+v", listResp.Requests)
	}
	if listResp.Requests[0].FromUserDetails == nil || listResp.Requests[0].FromUserDetails.DisplayName != "Ada" {
		t.Fatalf("expected hydrated sender details, got %+v", listResp.Requests[0].FromUserDetails)
	}

	// Accept, then verify the transition is terminal.
	w = env.do(t, http.MethodPost, "/api/requests/"+id+"/status", map[string]string{"status": "accepted"})
	if w.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodPost, "/api/requests/"+id+"/status", map[string]string{"status": "rejected"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a resolved request, got %d", w.Code)
	}
}

func TestProjectCreateAndFetch(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/api/projects", map[string]any{
		"user_id":     "student-1",
		"title":       "MediTrack",
		"team_name":   "Night Owls",
		"description": "Medication reminders for elderly patients",
		"github_url":  "https://github.com/nightowls/meditrack",
		"domain":      "healthtech",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	created := decode[map[string]any](t, w)
	id, _ := created["id"].(string)
	if created["status"] != "published" {
		t.Fatalf("expected published, got %v", created["status"])
	}

	w = env.do(t, http.MethodGet, "/api/projects/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/projects?domain=healthtech", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var projectsResp struct {
		Projects []struct {
			ID string `json:"id"`
		} `json:"projects"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &projectsResp); err != nil {
		t.Fatalf("decode projects: %v", err)
	}
	if len(projectsResp.Projects) != 1 || projectsResp.Projects[0].ID != id {
		t.Fatalf("expected the created project, got %+v", projectsResp.Projects)
	}
}

func TestUserProfileVariantMatchesRole(t *testing.T) {
	env := newTestServer(t)

	// A student record with founder fields is rejected.
	w := env.do(t, http.MethodPut, "/api/users/student-1", map[string]any{
		"display_name":    "Lin",
		"role":            "student",
		"founder_profile": map[string]any{"company_name": "Nope Inc"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for mismatched profile variant, got %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/users/student-1", map[string]any{
		"display_name": "Lin",
		"role":         "student",
		"student_profile": map[string]any{
			"college":         "State U",
			"graduation_year": 2027,
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/users/student-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var userResp struct {
		StudentProfile *struct {
			College string `json:"college"`
		} `json:"student_profile"`
		FounderProfile any `json:"founder_profile"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &userResp); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if userResp.StudentProfile == nil || userResp.StudentProfile.College != "State U" {
		t.Fatalf("expected student profile, got %+v", userResp)
	}
	if userResp.FounderProfile != nil {
		t.Fatal("founder profile must be absent on a student record")
	}
}
