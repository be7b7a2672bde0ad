package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"rentkenya/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testClient(baseURL string) Client {
	return NewClient(config.LLMConfig{
		Enabled: true,
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "deepseek/deepseek-chat",
		Timeout: 5 * time.Second,
		Referer: "http://localhost:3000",
		Title:   "Property Rental Platform",
	}, testLogger())
}

func chatResponse(content string) string {
	resp := ChatCompletionResponse{
		ID: "chatcmpl-test",
		Choices: []struct {
			Message ChatMessage `json:"message"`
		}{
			{Message: ChatMessage{Role: "assistant", Content: content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestClient_MatchProperties_Success(t *testing.T) {
	var gotPath, gotAuth, gotReferer string
	var gotBody ChatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatResponse(`{"matches":[{"property":{"id":"b2c7a1fe-0a10-4b4c-9a26-1f86f6d1f000"},"matchScore":85,"reasons":["fits budget"]}]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	resp, err := client.MatchProperties(context.Background(), MatchRequest{
		UserContext: json.RawMessage(`{"profile":{}}`),
		Candidates:  json.RawMessage(`[]`),
		MinScore:    60,
		MaxMatches:  10,
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/chat/completions" {
		t.Errorf("expected /chat/completions, got %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotReferer != "http://localhost:3000" {
		t.Errorf("expected referer header, got %q", gotReferer)
	}
	if gotBody.Model != "deepseek/deepseek-chat" {
		t.Errorf("unexpected model %q", gotBody.Model)
	}
	if gotBody.Temperature != 0.7 || gotBody.MaxTokens != 4000 {
		t.Errorf("completion params not forwarded: %+v", gotBody)
	}
	if len(gotBody.Messages) != 1 || !strings.Contains(gotBody.Messages[0].Content, "property matching assistant") {
		t.Error("prompt must carry the matching instructions")
	}

	if len(resp.Matches) != 1 || resp.Matches[0].MatchScore != 85 {
		t.Errorf("unexpected matches: %+v", resp.Matches)
	}
}

func TestClient_MatchProperties_ExtractsJSONFromProse(t *testing.T) {
	// Модель оборачивает JSON в пояснительный текст и markdown
	content := "Here are the matches you asked for:\n```json\n{\"matches\":[]}\n```\nHope this helps!"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatResponse(content))
	}))
	defer server.Close()

	client := testClient(server.URL)

	resp, err := client.MatchProperties(context.Background(), MatchRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Matches == nil {
		resp.Matches = []MatchPayload{}
	}
	if len(resp.Matches) != 0 {
		t.Errorf("expected empty matches, got %+v", resp.Matches)
	}
}

func TestClient_MatchProperties_MalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatResponse("I cannot produce JSON today, sorry."))
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.MatchProperties(context.Background(), MatchRequest{})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestClient_MatchProperties_HTTPErrorIsNotMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.MatchProperties(context.Background(), MatchRequest{})
	if err == nil {
		t.Fatal("expected an error")
	}
	// Транспортная ошибка не маскируется под неразборчивый ответ
	if errors.Is(err, ErrMalformedResponse) {
		t.Errorf("transport failure must not be ErrMalformedResponse: %v", err)
	}
}

func TestClient_MatchProperties_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":"chatcmpl-test","choices":[]}`)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.MatchProperties(context.Background(), MatchRequest{})
	if err == nil {
		t.Fatal("expected an error for empty choices")
	}
}

func TestNoopClient(t *testing.T) {
	client := NewClient(config.LLMConfig{Enabled: false}, testLogger())

	if client.IsEnabled() {
		t.Error("disabled config must produce a disabled client")
	}

	resp, err := client.MatchProperties(context.Background(), MatchRequest{})
	if err != nil {
		t.Fatalf("noop client must not fail: %v", err)
	}
	if len(resp.Matches) != 0 {
		t.Errorf("noop client must return empty matches, got %+v", resp.Matches)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"text before {\"a\":1} text after", `{"a":1}`},
		{"no braces at all", "no braces at all"},
		{"nested {\"a\":{\"b\":2}} tail", `{"a":{"b":2}}`},
	}

	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
