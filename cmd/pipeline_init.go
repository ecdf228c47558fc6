package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prsolans/agreement-mapper/internal/cache"
	"github.com/prsolans/agreement-mapper/internal/catalog"
	"github.com/prsolans/agreement-mapper/internal/research"
	"github.com/prsolans/agreement-mapper/internal/store"
	"github.com/prsolans/agreement-mapper/pkg/anthropic"
	"github.com/prsolans/agreement-mapper/pkg/tavily"
)

// pipelineEnv bundles everything a research run needs.
type pipelineEnv struct {
	Pipeline *research.Pipeline
	Store    store.Store
	Progress chan research.ProgressEvent
}

func (e *pipelineEnv) Close() {
	if e == nil {
		return
	}
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("store close failed", zap.Error(err))
		}
	}
}

// initPipeline wires the pipeline from config. The search backend and the
// product catalog are optional; the store is not.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key not configured (MAPPER_ANTHROPIC_KEY)")
	}
	llm := anthropic.NewClient(cfg.Anthropic.Key)

	opts := []research.Option{
		research.WithCache(cache.Open(cfg.Cache.Path,
			cache.WithCompanyTTL(cfg.Cache.CompanyTTLDays),
			cache.WithBenchmarkTTL(cfg.Cache.BenchmarkTTLDays),
		)),
	}

	if cfg.Tavily.Key != "" {
		tavilyOpts := []tavily.Option{tavily.WithSearchDepth(cfg.Tavily.SearchDepth)}
		if cfg.Tavily.BaseURL != "" {
			tavilyOpts = append(tavilyOpts, tavily.WithBaseURL(cfg.Tavily.BaseURL))
		}
		searcher := research.NewSearcher(
			tavily.NewClient(cfg.Tavily.Key, tavilyOpts...),
			cfg.Tavily.RatePerSecond,
			cfg.Research.MaxSearchResults,
		)
		opts = append(opts, research.WithSearcher(searcher))
	} else {
		zap.L().Warn("no search API key configured; quotes will be unverified")
	}

	if cat, err := catalog.Load(cfg.Catalog.Path); err != nil {
		zap.L().Warn("product catalog unavailable; skipping product recommendations",
			zap.String("path", cfg.Catalog.Path), zap.Error(err))
	} else {
		opts = append(opts, research.WithCatalog(cat))
	}

	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}

	progress := make(chan research.ProgressEvent, 256)
	opts = append(opts, research.WithProgress(progress))

	return &pipelineEnv{
		Pipeline: research.New(cfg, llm, opts...),
		Store:    st,
		Progress: progress,
	}, nil
}

// drainProgress logs progress events until the channel closes.
func drainProgress(progress <-chan research.ProgressEvent) {
	for ev := range progress {
		zap.L().Info("progress",
			zap.String("stage", ev.Stage),
			zap.String("message", ev.Message),
			zap.String("state", string(ev.State)),
			zap.Int("tokens", ev.Tokens),
		)
	}
}
