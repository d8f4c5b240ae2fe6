package analyzer

import (
	"github.com/samber/do/v2"
	"github.com/talkstream/convosync/internal/analyzer"
	"github.com/talkstream/convosync/internal/config"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (analyzer.Analyzer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewLLMAnalyzer(c.LLMAPIURL, c.LLMAPIKey, c.LLMModel), nil
	})
}
