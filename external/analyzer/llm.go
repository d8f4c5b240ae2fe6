package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/talkstream/convosync/internal/analyzer"
	"github.com/talkstream/convosync/internal/platform"
)

const requestTimeout = 30 * time.Second

const systemPrompt = "You analyze chatbot conversation transcripts. " +
	"Respond with JSON only, using exactly these keys: " +
	`"language" (ISO 639-1 code of the conversation language), ` +
	`"topic_en" (short topic phrase in English, prefixed with one fitting emoji), ` +
	`"topic_de" (the same topic phrase in German, prefixed with the same emoji), ` +
	`"name" (the user's name if they stated it, otherwise the literal string "unknown").`

type LLMAnalyzer struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

func NewLLMAnalyzer(apiURL, apiKey, model string) analyzer.Analyzer {
	return &LLMAnalyzer{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// Analyze degrades to the deterministic fallback on any failure. Transcripts
// without extractable text skip the outbound call entirely.
func (a *LLMAnalyzer) Analyze(ctx context.Context, turns []platform.Turn) analyzer.Analysis {
	text := analyzer.ConversationText(turns)
	if text == "" {
		slog.Info("no extractable text in transcript, using fallback analysis")
		return analyzer.Fallback()
	}

	result, err := a.requestAnalysis(ctx, text)
	if err != nil {
		slog.Warn("semantic analysis failed, using fallback", "error", err)
		return analyzer.Fallback()
	}
	return result
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type analysisPayload struct {
	Language string `json:"language"`
	TopicEN  string `json:"topic_en"`
	TopicDE  string `json:"topic_de"`
	Name     string `json:"name"`
}

func (a *LLMAnalyzer) requestAnalysis(ctx context.Context, text string) (analyzer.Analysis, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return analyzer.Analysis{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return analyzer.Analysis{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return analyzer.Analysis{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return analyzer.Analysis{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return analyzer.Analysis{}, fmt.Errorf("llm returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return analyzer.Analysis{}, fmt.Errorf("decode llm response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return analyzer.Analysis{}, fmt.Errorf("llm response has no choices")
	}

	payload, err := parseAnalysisContent(parsed.Choices[0].Message.Content)
	if err != nil {
		return analyzer.Analysis{}, err
	}
	if payload.Language == "" || payload.TopicEN == "" || payload.TopicDE == "" || payload.Name == "" {
		return analyzer.Analysis{}, fmt.Errorf("llm analysis missing required fields")
	}
	return analyzer.Analysis{
		Language: payload.Language,
		TopicEN:  payload.TopicEN,
		TopicDE:  payload.TopicDE,
		Name:     payload.Name,
	}, nil
}

// parseAnalysisContent extracts the JSON object between the outermost braces,
// tolerating models that wrap the object in prose or code fences.
func parseAnalysisContent(content string) (analysisPayload, error) {
	var payload analysisPayload
	raw := []byte(content)
	start := bytes.IndexByte(raw, '{')
	end := bytes.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return payload, fmt.Errorf("no JSON object in llm content")
	}
	if err := json.Unmarshal(raw[start:end+1], &payload); err != nil {
		return payload, fmt.Errorf("decode llm analysis: %w", err)
	}
	return payload, nil
}
