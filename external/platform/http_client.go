package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/talkstream/convosync/internal/platform"
	"github.com/talkstream/convosync/internal/retry"
)

const (
	requestTimeout   = 15 * time.Second
	fetchMaxAttempts = 3
	fetchBaseDelay   = 1000 * time.Millisecond
	errorBodySnippet = 200
)

type HTTPClient struct {
	baseURL        string
	client         *http.Client
	fetchBaseDelay time.Duration
}

func NewHTTPClient(baseURL string) platform.Client {
	return &HTTPClient{
		baseURL:        baseURL,
		client:         &http.Client{Timeout: requestTimeout},
		fetchBaseDelay: fetchBaseDelay,
	}
}

type transcriptSummaryPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	Tags      []string  `json:"tags"`
	CreatorID string    `json:"creatorID"`
	Unread    bool      `json:"unread"`
}

type turnPayload struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	StartTime *time.Time      `json:"startTime"`
	Format    string          `json:"format"`
}

func (c *HTTPClient) ListTranscripts(ctx context.Context, projectID, credential string) ([]platform.TranscriptSummary, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/transcripts/%s", c.baseURL, projectID), credential)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected array, got %q", platform.ErrMalformedResponse, snippet(body))
	}
	var raw []transcriptSummaryPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrMalformedResponse, err)
	}

	summaries := make([]platform.TranscriptSummary, 0, len(raw))
	for _, p := range raw {
		summaries = append(summaries, platform.TranscriptSummary{
			ID:        p.ID,
			Name:      p.Name,
			Image:     p.Image,
			CreatedAt: p.CreatedAt,
			Tags:      p.Tags,
			CreatorID: p.CreatorID,
			Unread:    p.Unread,
		})
	}
	return summaries, nil
}

func (c *HTTPClient) FetchTurns(ctx context.Context, transcriptID, projectID, credential string) ([]platform.Turn, error) {
	url := fmt.Sprintf("%s/transcripts/%s/%s", c.baseURL, projectID, transcriptID)

	raw, err := retry.Do(ctx, "fetch turns", fetchMaxAttempts, c.fetchBaseDelay, func() ([]turnPayload, error) {
		body, err := c.get(ctx, url, credential)
		if err != nil {
			return nil, err
		}
		var parsed []turnPayload
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("decode turns: %w", err)
		}
		return parsed, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch turns for transcript %s: %w", transcriptID, err)
	}

	turns := make([]platform.Turn, 0, len(raw))
	for i, p := range raw {
		if p.ID == "" || p.Type == "" || p.StartTime == nil {
			slog.Warn("dropping malformed turn",
				"transcript_id", transcriptID,
				"arrival_index", i,
				"turn_id", p.ID,
				"turn_type", p.Type,
				"has_timestamp", p.StartTime != nil)
			continue
		}
		turns = append(turns, platform.Turn{
			ID:        p.ID,
			Type:      p.Type,
			Payload:   p.Payload,
			StartedAt: *p.StartTime,
			Format:    p.Format,
		})
	}
	platform.SortTurns(turns)
	return turns, nil
}

func (c *HTTPClient) get(ctx context.Context, url, credential string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", credential)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return nil, fmt.Errorf("platform returned status %d: %s", resp.StatusCode, snippet(body))
	}
	return body, nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func snippet(body []byte) string {
	if len(body) > errorBodySnippet {
		return string(body[:errorBodySnippet]) + "..."
	}
	return string(body)
}
