package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aluiziolira/swell-carousel/config"
	"github.com/aluiziolira/swell-carousel/fixture"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	addrDefault := ":8000"
	if value, ok := config.EnvString("SWELL_FIXTURE_ADDR"); ok {
		addrDefault = value
	}
	fileDefault := "fixture/testdata/outfits.yaml"
	if value, ok := config.EnvString("SWELL_FIXTURE_FILE"); ok {
		fileDefault = value
	}

	addr := flag.String("addr", addrDefault, "Listen address")
	file := flag.String("file", fileDefault, "Fixture YAML file")
	prefix := flag.String("prefix", "/api", "Path prefix the API is mounted under")
	verbose := flag.Bool("v", false, "Log every request")
	flag.Parse()

	data, err := fixture.Load(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading fixture: %v\n", err)
		os.Exit(1)
	}

	app := fiber.New(fixture.AppConfig())
	if *verbose {
		app.Use(logger.New())
	}
	srv := fixture.NewServer(data)
	srv.RegisterRoutes(app.Group(*prefix))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			slog.Error("fixture server shutdown failed", slog.Any("error", err))
		}
	}()

	slog.Info("fixture server listening",
		slog.String("addr", *addr),
		slog.String("prefix", *prefix),
		slog.Int("outfits", len(data.Outfits)),
	)
	if err := app.Listen(*addr); err != nil {
		slog.Error("fixture server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
