package main

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/eventcrew/artifact"
	"github.com/hupe1980/eventcrew/artifact/file"
	artifactredis "github.com/hupe1980/eventcrew/artifact/redis"
	artifacts3 "github.com/hupe1980/eventcrew/artifact/s3"
	"github.com/hupe1980/eventcrew/config"
	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/model"
	modelanthropic "github.com/hupe1980/eventcrew/model/anthropic"
	modelopenai "github.com/hupe1980/eventcrew/model/openai"
	"github.com/redis/go-redis/v9"
)

func newModelFactory(cfg config.ModelConfig) (model.Factory, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return modelopenai.NewFactory(func(o *modelopenai.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.Temperature = cfg.Temperature
			o.BaseURL = cfg.BaseURL
		}), nil
	case config.ProviderAnthropic:
		return modelanthropic.NewFactory(func(o *modelanthropic.Options) {
			if cfg.Name != "" {
				o.Model = anthropic.Model(cfg.Name)
			}
			o.Temperature = cfg.Temperature
			o.BaseURL = cfg.BaseURL
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

func newArtifactStore(ctx context.Context, cfg config.ArtifactsConfig) (core.ArtifactStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		store := artifact.NewInMemoryStore(func(o *artifact.InMemoryOptions) { o.MaxRuns = cfg.MaxRuns })
		return store, noop, nil
	case config.BackendFile:
		store, err := file.New(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case config.BackendS3:
		store, err := artifacts3.New(artifacts3.Config{
			Bucket:       cfg.S3.Bucket,
			Prefix:       cfg.S3.Prefix,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		store := artifactredis.New(client, func(o *artifactredis.Options) {
			o.Prefix = cfg.Redis.Prefix
			o.TTL = cfg.Redis.TTL
		})
		return store, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown artifact backend %q", cfg.Backend)
	}
}
