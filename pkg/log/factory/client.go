// Package factory builds the log client of each profile lazily and keeps it
// for the rest of the session.
package factory

import (
	"context"
	"sync"

	"github.com/bascanada/lambdalogs/pkg/log"
	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/client/config"
	"github.com/bascanada/lambdalogs/pkg/log/impl/cloudwatch"
	"github.com/bascanada/lambdalogs/pkg/ty"
)

// LogClientFactory provides the client.LogClient of a profile.
type LogClientFactory interface {
	Get(ctx context.Context, profile client.Profile) (client.LogClient, error)
}

// Builder creates the client of one profile.
type Builder func(ctx context.Context, profile client.Profile) (client.LogClient, error)

type logClientFactory struct {
	mu      sync.Mutex
	build   Builder
	clients ty.LazyMap[string, client.LogClient]
}

// NewLogClientFactory returns a factory calling build at most once per
// profile name and region, until it succeeds.
func NewLogClientFactory(build Builder) LogClientFactory {
	return &logClientFactory{
		build:   build,
		clients: make(ty.LazyMap[string, client.LogClient]),
	}
}

func (f *logClientFactory) Get(ctx context.Context, profile client.Profile) (client.LogClient, error) {
	key := cacheKey(profile)

	f.mu.Lock()
	lazy, ok := f.clients[key]
	if !ok {
		p := profile
		// the client outlives the request that first asked for it
		buildCtx := context.WithoutCancel(ctx)
		lazy = ty.GetLazy(func() (client.LogClient, error) {
			log.Debug("creating log client profile=%s region=%s", p.Name, p.Region)
			return f.build(buildCtx, p)
		})
		f.clients[key] = lazy
	}
	f.mu.Unlock()

	c, err := lazy()
	if err != nil {
		return nil, client.NewFetchError(client.OpCreateClient, profile.Name, "", err)
	}
	return c, nil
}

// cacheKey separates the clients of a profile whose region changed after a
// reload of the shared files.
func cacheKey(profile client.Profile) string {
	return profile.Name + "|" + profile.Region
}

// CloudWatchBuilder creates CloudWatch clients using the settings of cfg.
func CloudWatchBuilder(cfg *config.Config) Builder {
	return func(ctx context.Context, profile client.Profile) (client.LogClient, error) {
		c, err := cloudwatch.GetLogClient(ctx, cloudwatch.Options{
			Profile:        profile.Name,
			Region:         profile.Region,
			Endpoint:       cfg.EndpointURL(),
			LogGroupPrefix: cfg.LogGroupPrefix,
			PageSize:       cfg.PageSize,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// GetLogClientFactory returns the CloudWatch backed factory for cfg.
func GetLogClientFactory(cfg *config.Config) LogClientFactory {
	return NewLogClientFactory(CloudWatchBuilder(cfg))
}
