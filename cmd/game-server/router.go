package main

import (
	"blackjack-server/internal/config"
	"blackjack-server/internal/registry"
	httptransport "blackjack-server/internal/transport/http"

	"github.com/go-chi/chi/v5"
)

func newRouter(reg *registry.Registry, st httptransport.Pinger, cfg config.ServerConfig) *chi.Mux {
	return httptransport.NewRouter(reg, st, cfg)
}

func logRoutes(r chi.Router) {
	httptransport.LogRoutes(r)
}
