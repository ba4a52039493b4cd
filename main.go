package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tanpawarit/appointment-assistant/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
	"github.com/tanpawarit/appointment-assistant/agent/llm"
	"github.com/tanpawarit/appointment-assistant/agent/tool"
	configx "github.com/tanpawarit/appointment-assistant/pkg/config"
	_ "github.com/tanpawarit/appointment-assistant/pkg/logger/autoload"
	postgresx "github.com/tanpawarit/appointment-assistant/pkg/postgres"
	"github.com/tanpawarit/appointment-assistant/scheduling"
	"github.com/tanpawarit/appointment-assistant/scheduling/pgstore"
	"github.com/tanpawarit/appointment-assistant/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[server.Config]("APP")
	dbCfg := configx.MustNew[postgresx.Config]("DATABASE")
	llmCfg := configx.MustNew[llm.Config]("OPENAI")

	db := postgresx.MustNew(ctx, *dbCfg)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if dbCfg.AutoMigrate {
		if err := pgstore.CreateSchema(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("create schema")
		}
	}

	store, err := pgstore.New(db)
	if err != nil {
		log.Fatal().Err(err).Msg("create store")
	}
	service, err := scheduling.NewService(store)
	if err != nil {
		log.Fatal().Err(err).Msg("create scheduling service")
	}

	assistant, err := newAssistant(ctx, *llmCfg, service)
	if err != nil {
		log.Fatal().Err(err).Msg("create assistant")
	}

	app, err := server.New(*appCfg, service, assistant)
	if err != nil {
		log.Fatal().Err(err).Msg("create http server")
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", appCfg.Addr).Msg("http server listening")
		errCh <- app.Listen(appCfg.Addr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
}

// newAssistant returns nil when no model credential is configured; /chat then answers 500.
func newAssistant(ctx context.Context, cfg llm.Config, scheduler contractx.Scheduler) (contractx.Assistant, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if errors.Is(err, contractx.ErrModelUnavailable) {
		log.Warn().Msg("OPENAI_API_KEY is not set; chat is disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	gateway, err := tool.NewGateway(scheduler)
	if err != nil {
		return nil, err
	}
	orchestrator, err := orchestratorx.New(chatModel, gateway, orchestratorx.Config{
		DefaultModel: cfg.DefaultModel(),
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Driver).Str("model", cfg.DefaultModel()).Msg("assistant ready")
	return orchestrator, nil
}
