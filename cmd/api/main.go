package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"rfemassist/internal/config"
	"rfemassist/internal/extract"
	"rfemassist/internal/llm"
	"rfemassist/internal/server"
	"rfemassist/internal/store"
)

func main() {
	port := flag.String("port", "", "server port (default PORT or :8080)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	addr := config.FirstNonEmpty(*port, cfg.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	if cfg.APIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}
	gemini, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}
	client := llm.Wrap(gemini, llm.WithLogging(nil), llm.RateLimit(cfg.LLMRPS, cfg.LLMBurst))
	defer client.Close()

	srv := server.New(extract.New(client, extract.Config{Instruction: cfg.Instruction}, nil), st, nil)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(server.CORS(srv.Router()), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting API server on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
