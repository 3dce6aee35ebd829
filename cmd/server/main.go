package main

import (
	"log"
	"net/http"
	"os"

	"github.com/captionrelay/backend/internal/api"
	"github.com/captionrelay/backend/internal/captions"
	"github.com/captionrelay/backend/internal/config"
	"github.com/captionrelay/backend/internal/fetch"
	"github.com/captionrelay/backend/internal/health"
	"github.com/captionrelay/backend/internal/logger"
	"github.com/captionrelay/backend/internal/middleware"
	"github.com/captionrelay/backend/internal/source"
	"github.com/captionrelay/backend/internal/websocket"
)

const version = "0.3.0"

func main() {
	cfg := config.Load()

	logger.SetDefault(logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel), "server"))
	appLog := logger.Default()

	httpClient := fetch.NewClient(cfg.FetchTimeout)

	service := captions.NewService(
		source.NewLibrary(),
		source.NewWatchPage(httpClient),
		source.NewTimedText(httpClient),
	)

	streamer := websocket.NewStreamer(service)
	checker := health.NewChecker(httpClient, version)

	router := api.NewRouter(service, streamer, checker, cfg.APISecret)

	handler := middleware.Chain(router,
		middleware.RequestID,
		middleware.Logging(appLog),
		middleware.CORS([]string{cfg.AllowedOrigin}),
		middleware.Recoverer(appLog),
	)

	log.Printf("Starting server on %s", cfg.ServerAddr)
	if err := http.ListenAndServe(cfg.ServerAddr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
