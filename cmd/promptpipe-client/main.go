// Command promptpipe-client is the interactive menu front end for a running
// promptpipe server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"

	"github.com/promptpipe/promptpipe/client"
	"github.com/promptpipe/promptpipe/config"
	"github.com/promptpipe/promptpipe/pkg/slogx"
	"github.com/promptpipe/promptpipe/provider/openai"
)

var log zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelWarn}),
	))
}

func main() {
	debug := flag.Bool("debug", false, "dump raw envelopes before rendering")
	flag.Parse()

	settings, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", slogx.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := client.Connect(ctx, settings.ServerURL())
	if err != nil {
		slog.Error("connecting to server", "url", settings.ServerURL(), slogx.Error(err))
		os.Exit(1)
	}
	defer conn.Close()

	renderer, err := client.NewRenderer(os.Stdout, *debug)
	if err != nil {
		slog.Error("building renderer", slogx.Error(err))
		os.Exit(1)
	}

	// Smart routing needs its own gateway access; without a key the menu
	// still works, minus that one option.
	var router *client.Router
	if settings.GroqAPIKey != "" {
		router = client.NewRouter(openai.GroqModel(settings.DefaultModel, settings.GroqAPIKey))
	}

	menu := client.NewMenu(conn, router, renderer, os.Stdin, os.Stdout)
	if err := menu.Run(ctx); err != nil {
		slog.Error("menu loop", slogx.Error(err))
		os.Exit(1)
	}
}
