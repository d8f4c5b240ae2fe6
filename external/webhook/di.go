package webhook

import (
	"github.com/samber/do/v2"
	"github.com/talkstream/convosync/internal/config"
	"github.com/talkstream/convosync/internal/sync"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		syncer := do.MustInvoke[*sync.Service](i)
		return NewServer(cfg.HTTPPort, cfg.IsDevelopment(), syncer), nil
	})
}
