package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/base-angewandte/baseauth/pkg/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the autosuggest HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.cfg.LogMode == "production" || a.cfg.LogMode == "prod" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := server.New(a.cfg, a.lookup, a.log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.log.Info("starting baseauth", "config", *configPath, "cache", a.cfg.Cache.Backend)
			return srv.ListenAndServe(ctx)
		},
	}
}
