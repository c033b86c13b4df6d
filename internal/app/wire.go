package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "poolpulse/internal/blob/s3"
	"poolpulse/internal/cache/redis"
	"poolpulse/internal/config"
	"poolpulse/internal/crypto"
	"poolpulse/internal/export"
	"poolpulse/internal/platform/balancer"
	"poolpulse/internal/report"
)

// Dependencies bundles what the reports need to operate. It is constructed by
// Wire and torn down by the returned cleanup function.
type Dependencies struct {
	API      report.API
	Exporter export.Exporter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- API client ---
	apiKey, err := crypto.LoadAPIKey(crypto.CredentialConfig{
		RawKey:           cfg.API.Key,
		EncryptedKeyPath: cfg.API.EncryptedKeyPath,
		KeyPassword:      cfg.API.KeyPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wire: api key: %w", err)
	}

	client := balancer.NewClient(balancer.ClientConfig{
		GraphQLURL: cfg.API.URL,
		APIKey:     apiKey,
		RateLimit:  cfg.API.RateLimit,
		RateWindow: cfg.API.RateWindow.Duration,
		MaxRetries: cfg.API.MaxRetries,
		RetryDelay: cfg.API.RetryDelay.Duration,
		Timeout:    cfg.API.Timeout.Duration,
	}, logger)

	var api report.API = client

	// --- Redis response cache (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		cache := redis.NewPoolCache(redisClient, cfg.Redis.CacheTTL.Duration)
		api = balancer.NewCachedClient(client, cache, logger)
	}

	// --- Exporters ---
	exporter := export.MultiExporter{
		export.NewFileExporter(cfg.Export.Dir, logger),
	}

	if cfg.Export.S3Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		exporter = append(exporter, export.NewBlobExporter(s3blob.NewWriter(s3Client), logger))
	}

	return &Dependencies{
		API:      api,
		Exporter: exporter,
	}, cleanup, nil
}
