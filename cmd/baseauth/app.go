package main

import (
	"fmt"
	"net/http"

	"github.com/base-angewandte/baseauth/pkg/aggregator"
	"github.com/base-angewandte/baseauth/pkg/cache"
	"github.com/base-angewandte/baseauth/pkg/concepts"
	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/labels"
	"github.com/base-angewandte/baseauth/pkg/logging"
	"github.com/base-angewandte/baseauth/pkg/lookup"
	"github.com/base-angewandte/baseauth/pkg/router"
	"github.com/base-angewandte/baseauth/pkg/skosmos"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg    *config.Config
	log    *logging.Logger
	store  cache.Store
	labels *labels.Resolver
	lookup *lookup.Service
}

func loadConfig(path string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newApp(configPath string) (*app, error) {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	memo := cache.NewMemo(store, cfg.Cache.TTL, log)

	httpClient := &http.Client{}
	voc := skosmos.New(cfg.Skosmos, httpClient, log)
	fetcher := concepts.New(voc, memo, log)

	agg, err := aggregator.New(cfg, httpClient, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	svc, err := lookup.New(router.New(cfg), fetcher.Registry(), agg, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		labels: labels.New(voc, memo, cfg.Skosmos, log),
		lookup: svc,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close cache", "error", err)
	}
	a.log.Sync()
}
