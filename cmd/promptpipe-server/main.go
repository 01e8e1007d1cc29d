// Command promptpipe-server hosts the four prompt pipelines as MCP tools
// over streamable HTTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/nats-io/nats.go"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"

	"github.com/promptpipe/promptpipe/config"
	"github.com/promptpipe/promptpipe/internal/broker"
	"github.com/promptpipe/promptpipe/media"
	"github.com/promptpipe/promptpipe/pkg/slogx"
	"github.com/promptpipe/promptpipe/provider"
	"github.com/promptpipe/promptpipe/provider/openai"
	"github.com/promptpipe/promptpipe/server"
	"github.com/promptpipe/promptpipe/sessions"
)

var log zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelDebug}),
	))
}

func main() {
	settings, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", slogx.Error(err))
		os.Exit(1)
	}
	if settings.GroqAPIKey == "" {
		slog.Error("GROQ_API_KEY is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	groq := openai.Groq(settings.GroqAPIKey)
	tools := media.FFmpeg()

	eventBroker := broker.Local()
	if settings.NATSURL != "" {
		nc, err := nats.Connect(settings.NATSURL)
		if err != nil {
			slog.Error("connecting to NATS", slogx.Error(err))
			os.Exit(1)
		}
		defer nc.Close()
		eventBroker = broker.NATS(nc)
		slog.Info("publishing run events to NATS", "url", settings.NATSURL)
	}

	cfg := server.Config{
		Model:       openai.GroqModel(settings.DefaultModel, settings.GroqAPIKey),
		ModelName:   settings.DefaultModel,
		Sampling:    provider.Sampling{Temperature: settings.Temperature, MaxTokens: settings.MaxTokens},
		Sessions:    sessions.InMemory(),
		Prober:      tools,
		Extractor:   tools,
		Transcriber: groq,
		Broker:      eventBroker,
	}

	httpServer := server.NewHTTP(ctx, cfg)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting promptpipe server", "addr", settings.Addr(), "model", settings.DefaultModel)
		errCh <- httpServer.Start(settings.Addr())
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", slogx.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			slog.Error("server stopped", slogx.Error(err))
			os.Exit(1)
		}
	}
}
