package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hoanghai1803/newsdesk/internal/acquire"
	"github.com/hoanghai1803/newsdesk/internal/ai"
	"github.com/hoanghai1803/newsdesk/internal/config"
	"github.com/hoanghai1803/newsdesk/internal/curate"
	"github.com/hoanghai1803/newsdesk/internal/feeds"
	"github.com/hoanghai1803/newsdesk/internal/newsapi"
	"github.com/hoanghai1803/newsdesk/internal/rank"
	"github.com/hoanghai1803/newsdesk/internal/sources"
	"github.com/hoanghai1803/newsdesk/internal/storage"
)

// app holds the wired pipeline components.
type app struct {
	completer ai.Completer
	newsAPI   *newsapi.Client
	selector  *sources.Selector
	cache     *storage.Cache
	curator   *curate.Curator
}

// newApp builds every component from cfg. A missing completion or
// aggregation key is not an error: the pipeline degrades instead.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	var completer ai.Completer
	if cfg.CompletionAvailable() {
		c, err := ai.NewProvider(ai.ProviderConfig{
			Provider:    cfg.Completion.Provider,
			APIKey:      cfg.Completion.APIKey,
			Model:       cfg.Completion.Model,
			BaseURL:     cfg.Completion.BaseURL,
			JSONMode:    cfg.Completion.JSONMode,
			MaxTokens:   cfg.Completion.MaxTokens,
			Temperature: cfg.Completion.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("creating completion provider: %w", err)
		}
		completer = c
		slog.Info("completion provider configured", "provider", cfg.Completion.Provider, "model", cfg.Completion.Model)
	} else {
		slog.Warn("no completion API key configured, using fallback sources and scores")
	}

	table, err := sources.LoadTable(cfg.Sources.TablePath)
	if err != nil {
		return nil, err
	}

	newsAPI := newsapi.NewClient(newsapi.Config{
		APIKey:   cfg.Aggregation.APIKey,
		BaseURL:  cfg.Aggregation.BaseURL,
		Language: cfg.Aggregation.Language,
		Timeout:  cfg.RequestTimeout(),
	})
	fetcher := feeds.NewFetcher(feeds.Options{
		Timeout:   cfg.RequestTimeout(),
		RateLimit: cfg.RateLimit(),
		UserAgent: cfg.Acquire.UserAgent,
	})

	cache, err := storage.OpenCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening article cache: %w", err)
	}

	selector := sources.NewSelector(completer, table, cfg.Sources.MaxSources)
	acquirer := acquire.New(newsAPI, fetcher, cfg.Acquire.Workers)
	ranker := rank.NewRanker(completer)

	return &app{
		completer: completer,
		newsAPI:   newsAPI,
		selector:  selector,
		cache:     cache,
		curator:   curate.New(selector, acquirer, ranker, cache, completer),
	}, nil
}

// Close releases the cache and any completion client that holds resources.
func (a *app) Close() {
	if c, ok := a.completer.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("closing completion client", "error", err)
		}
	}
	if err := a.cache.Close(); err != nil {
		slog.Warn("closing article cache", "error", err)
	}
}
