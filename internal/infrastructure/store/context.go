package store

import (
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/backend"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/manager"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
)

// Context holds store-specific request context.
type Context struct {
	StoreID        string
	StorefrontHost string
	Config         *Config
	CacheManager   *manager.Manager
	Logger         *logging.ChanneledLogger
}

// Target builds the backend call target for this store: its endpoint
// override (if any) and the storefront hostname driving tenant resolution.
func (ctx *Context) Target() backend.Target {
	endpoint := ""
	if ctx.Config != nil {
		endpoint = ctx.Config.GraphQLEndpoint
	}
	host := ctx.StorefrontHost
	if host == "" && ctx.Config != nil {
		host = ctx.Config.PrimaryHostname()
	}
	return backend.Target{Endpoint: endpoint, StorefrontHost: host}
}

// GetStoreID returns the store ID for this context.
func (ctx *Context) GetStoreID() string {
	return ctx.StoreID
}
