package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/syndicategame/syndicate-backend/internal/auth"
	"github.com/syndicategame/syndicate-backend/internal/config"
	"github.com/syndicategame/syndicate-backend/internal/engine"
	"github.com/syndicategame/syndicate-backend/internal/httpapi"
	"github.com/syndicategame/syndicate-backend/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	seed := cfg.Seed
	if seed == 0 {
		seed = engine.NewSeed()
	}

	gate := auth.NewGate(cfg.HostPIN, cfg.PlayerPINMap())
	sess := session.New(context.Background(), engine.Rules{
		MaxRounds:           cfg.MaxRounds,
		AllowMidGameShuffle: cfg.AllowMidGameShuffle,
	}, engine.NewRNG(seed), logger)

	handler := httpapi.SetupRoutes(gate, sess, logger)

	logger.Info("listening",
		zap.String("addr", cfg.Addr),
		zap.Int("max_rounds", cfg.MaxRounds))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
