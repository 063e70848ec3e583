package cmd

import (
	"context"
	"fmt"

	"github.com/kbroman/errorgrams/pkg/analysis"
	"github.com/kbroman/errorgrams/pkg/cache"
	"github.com/kbroman/errorgrams/pkg/corpus"
	"github.com/kbroman/errorgrams/pkg/extract"
	"github.com/kbroman/errorgrams/pkg/redis"
	"github.com/kbroman/errorgrams/pkg/stackexchange"
)

// newSearchClient builds the search API client, with a Redis page cache when
// one is configured. The returned cleanup closes both.
func newSearchClient(cfg *Config) (stackexchange.ClientInterface, func(), error) {
	var (
		pageCache stackexchange.PageCache
		closers   []func() error
	)

	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}

		pageCache = cache.NewPageManager(redisClient, cfg.Redis.Prefix, cfg.Redis.TTL)
		closers = append(closers, redisClient.Close)

		logger.WithField("address", cfg.Redis.Address).Debug("Using Redis page cache")
	}

	client, err := stackexchange.NewClient(logger, &cfg.StackExchange, pageCache)
	if err != nil {
		for _, c := range closers {
			_ = c()
		}

		return nil, nil, fmt.Errorf("failed to create search client: %w", err)
	}

	closers = append(closers, client.Stop)

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.WithError(err).Warn("Failed to close resource")
			}
		}
	}

	return client, cleanup, nil
}

// loadPosts reads posts from input when given, otherwise queries the API
func loadPosts(ctx context.Context, cfg *Config, input string) ([]corpus.Post, error) {
	var (
		src     corpus.Source
		cleanup = func() {}
	)

	if input != "" {
		fileSource, err := corpus.NewFileSource(input)
		if err != nil {
			return nil, err
		}

		src = fileSource
	} else {
		client, closeClient, err := newSearchClient(cfg)
		if err != nil {
			return nil, err
		}

		src = client
		cleanup = closeClient
	}

	defer cleanup()

	return src.Posts(ctx)
}

// analyze loads the corpus and runs the analysis over it
func analyze(ctx context.Context, cfg *Config, input string) (*analysis.Report, error) {
	extractor, err := extract.NewExtractor(cfg.Extraction)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	svc, err := analysis.NewService(logger, &cfg.Analysis, extractor)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}

	posts, err := loadPosts(ctx, cfg, input)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	return svc.Analyze(ctx, posts)
}
