package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"blackjack-server/internal/config"
	"blackjack-server/internal/logging"
	"blackjack-server/internal/registry"
	"blackjack-server/internal/server"
	"blackjack-server/internal/table"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer closeStore()

	pub, closePub := openPublisher(ctx, cfg.Server)
	defer closePub()

	reg, err := registry.New(ctx, st, pub, registryOptions(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("registry init failed")
	}
	defer reg.Close()
	reg.StartJanitor(ctx, cfg.Server.JanitorInterval)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.New(reg).ListenAndServe(ctx, cfg.Server.TCPAddr)
	})
	if cfg.Server.HTTPAddr != "" {
		r := newRouter(reg, st, cfg.Server)
		logRoutes(r)
		srv := &http.Server{
			Addr:              cfg.Server.HTTPAddr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		g.Go(func() error {
			log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return
	}
	log.Info().Msg("server stopped")
}

func registryOptions(cfg config.AppConfig) registry.Options {
	return registry.Options{
		StartingScore: cfg.Server.StartingScore,
		BotWealth:     cfg.Table.BotWealth,
		Table: table.Options{
			Countdown:   cfg.Table.Countdown,
			Tick:        cfg.Table.Tick,
			SettleDelay: cfg.Table.SettleDelay,
			BotThink:    cfg.Table.BotThink,
			BotStake:    cfg.Table.BotStake,
			BotStakeAt:  cfg.Table.BotStakeAt,
		},
	}
}
