package platform

import (
	"github.com/samber/do/v2"
	"github.com/talkstream/convosync/internal/config"
	"github.com/talkstream/convosync/internal/platform"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (platform.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPClient(c.PlatformAPIBaseURL), nil
	})
}
