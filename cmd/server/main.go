package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/predictionbingo/backend/internal/auth"
	"github.com/predictionbingo/backend/internal/httpapi"
	"github.com/predictionbingo/backend/internal/service"
	"github.com/predictionbingo/backend/internal/storage/sqlite"
	"github.com/predictionbingo/backend/pkg/logging"
)

const releaseVersion = "0.1.0"

func main() {
	logging.Setup()
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func serve(ctx context.Context, cfg *Config) error {
	store, err := sqlite.New(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.dbPath)

	jwtManager := auth.NewJWTManager(cfg.jwtSecret, cfg.tokenDuration)
	identity := auth.NewIdentity(store, jwtManager)

	groups := service.NewGroupService(store)
	predictions := service.NewPredictionService(store, groups)
	cards := service.NewCardService(store)

	handlers := httpapi.NewHandlers(identity, groups, predictions, cards)
	router := httpapi.SetupRoutes(handlers, jwtManager)

	// h2c allows HTTP/2 without TLS for clients behind a terminating proxy.
	h2cHandler := h2c.NewHandler(router, &http2.Server{})

	addr := fmt.Sprintf("%s:%d", cfg.bind, cfg.port)
	server := &http.Server{
		Addr:    addr,
		Handler: h2cHandler,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	slog.Info("Server starting", "address", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
