package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	log "log/slog"

	"newsvox/internal/ai"
	"newsvox/internal/config"
	"newsvox/internal/logging"
	"newsvox/internal/proxy"
	"newsvox/internal/proxyserver"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", "", "Config file path")
	addr := cli.StringP("addr", "a", "", "Listen address")
	logLevel := cli.StringP("log", "l", "", "Log level")
	cli.Parse()

	godotenv.Load(*envFile)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		logging.Setup("info").Error("Failed to load config", "err", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *addr != "" {
		cfg.Proxy.Addr = *addr
	}

	logger := logging.Setup(cfg.LogLevel)
	log.Info("Booting up", "addr", cfg.Proxy.Addr, "ai", cfg.Proxy.AIProvider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient, err := proxy.NewHTTPClient(cfg.Gateway.SocksProxy, cfg.Gateway.Timeout)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.Gateway.SocksProxy, "err", err)
		os.Exit(1)
	}

	var gen ai.Generator
	switch cfg.Proxy.AIProvider {
	case "openai":
		if cfg.Proxy.OpenAIKey == "" {
			log.Warn("OPENAI_API_KEY not set, /ai-proxy will fail")
			break
		}
		gen = ai.NewOpenAIClient(cfg.Proxy.OpenAIKey, cfg.Proxy.OpenAIModel, httpClient)
	default:
		g, err := proxyserver.NewGemini(ctx, cfg.Proxy.GeminiKey, cfg.Proxy.GeminiModel)
		if err != nil {
			log.Warn("Gemini unavailable, /ai-proxy will fail", "err", err)
			break
		}
		gen = g
	}
	if cfg.Proxy.GNewsKey == "" {
		log.Warn("GNEWS_API_KEY not set, /news-proxy will fail")
	}

	srv := proxyserver.New(proxyserver.Options{
		AI:       gen,
		Provider: cfg.Proxy.AIProvider,
		News:     proxyserver.NewGNews(cfg.Proxy.NewsBaseURL, cfg.Proxy.GNewsKey, cfg.Proxy.MaxArticles, httpClient),
		Log:      logger,
		Timeout:  cfg.Gateway.Timeout,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Proxy.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info("Boot up - successful")

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Failed http server", "err", err)
		os.Exit(1)
	}

	log.Info("Shutting down")
}
