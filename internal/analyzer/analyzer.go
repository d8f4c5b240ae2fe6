package analyzer

import (
	"context"

	"github.com/talkstream/convosync/internal/platform"
)

const (
	FallbackLanguage = "en"
	FallbackTopic    = "❓ Unknown Topic"
	FallbackName     = "unknown"
)

// Analysis is the semantic summary of one transcript. Topic is carried in
// both supported languages.
type Analysis struct {
	Language string
	TopicEN  string
	TopicDE  string
	Name     string
}

// Fallback is the deterministic placeholder substituted whenever semantic
// analysis cannot be obtained. The pipeline output stays well-formed even
// when the analysis service is down.
func Fallback() Analysis {
	return Analysis{
		Language: FallbackLanguage,
		TopicEN:  FallbackTopic,
		TopicDE:  FallbackTopic,
		Name:     FallbackName,
	}
}

// Analyzer never fails: any error obtaining the analysis degrades to
// Fallback so an analysis problem cannot abort transcript processing.
type Analyzer interface {
	Analyze(ctx context.Context, turns []platform.Turn) Analysis
}
