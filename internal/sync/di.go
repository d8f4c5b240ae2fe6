package sync

import (
	"github.com/samber/do/v2"
	"github.com/talkstream/convosync/internal/analyzer"
	"github.com/talkstream/convosync/internal/platform"
	"github.com/talkstream/convosync/internal/repository"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		repo := do.MustInvoke[repository.Repository](i)
		client := do.MustInvoke[platform.Client](i)
		an := do.MustInvoke[analyzer.Analyzer](i)
		return NewService(repo, client, an), nil
	})
}
