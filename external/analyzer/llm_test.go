package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/talkstream/convosync/internal/analyzer"
	"github.com/talkstream/convosync/internal/platform"
)

func textTurn(message string) platform.Turn {
	return platform.Turn{
		ID:        "turn-1",
		Type:      platform.TurnTypeText,
		Payload:   json.RawMessage(fmt.Sprintf(`{"message":%q}`, message)),
		StartedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func chatCompletion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestAnalyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		fmt.Fprint(w, chatCompletion(`{"language":"de","topic_en":"📦 Shipping question","topic_de":"📦 Versandfrage","name":"Lena"}`))
	}))
	defer server.Close()

	a := NewLLMAnalyzer(server.URL, "test-key", "gpt-4o-mini")
	got := a.Analyze(context.Background(), []platform.Turn{textTurn("Wann kommt mein Paket?")})
	if got.Language != "de" || got.Name != "Lena" {
		t.Fatalf("unexpected analysis: %+v", got)
	}
	if got.TopicEN != "📦 Shipping question" || got.TopicDE != "📦 Versandfrage" {
		t.Fatalf("unexpected topics: %+v", got)
	}
}

func TestAnalyze_ContentWrappedInProse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatCompletion("Here is the result:\n```json\n{\"language\":\"en\",\"topic_en\":\"💬 Greeting\",\"topic_de\":\"💬 Begrüßung\",\"name\":\"unknown\"}\n```"))
	}))
	defer server.Close()

	a := NewLLMAnalyzer(server.URL, "test-key", "gpt-4o-mini")
	got := a.Analyze(context.Background(), []platform.Turn{textTurn("Hello!")})
	if got.Language != "en" || got.TopicEN != "💬 Greeting" {
		t.Fatalf("unexpected analysis: %+v", got)
	}
}

func TestAnalyze_NoTextSkipsOutboundCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	a := NewLLMAnalyzer(server.URL, "test-key", "gpt-4o-mini")
	got := a.Analyze(context.Background(), []platform.Turn{
		{ID: "turn-1", Type: "debug", Payload: json.RawMessage(`{}`)},
	})
	if called {
		t.Fatal("expected no outbound call for empty transcript text")
	}
	if got != analyzer.Fallback() {
		t.Fatalf("expected fallback analysis, got %+v", got)
	}
}

func TestAnalyze_ServerErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a := NewLLMAnalyzer(server.URL, "test-key", "gpt-4o-mini")
	got := a.Analyze(context.Background(), []platform.Turn{textTurn("hello")})
	if got != analyzer.Fallback() {
		t.Fatalf("expected fallback analysis, got %+v", got)
	}
}

func TestAnalyze_MissingFieldsFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatCompletion(`{"language":"en","topic_en":"💬 Greeting"}`))
	}))
	defer server.Close()

	a := NewLLMAnalyzer(server.URL, "test-key", "gpt-4o-mini")
	got := a.Analyze(context.Background(), []platform.Turn{textTurn("hello")})
	if got != analyzer.Fallback() {
		t.Fatalf("expected fallback analysis, got %+v", got)
	}
}

func TestAnalyze_NonJSONContentFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatCompletion("sorry, I cannot help with that"))
	}))
	defer server.Close()

	a := NewLLMAnalyzer(server.URL, "test-key", "gpt-4o-mini")
	got := a.Analyze(context.Background(), []platform.Turn{textTurn("hello")})
	if got != analyzer.Fallback() {
		t.Fatalf("expected fallback analysis, got %+v", got)
	}
}
