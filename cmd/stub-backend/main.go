package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/STTM-NSU/trading-app/internal/config"
	"github.com/STTM-NSU/trading-app/internal/logger"
	"github.com/STTM-NSU/trading-app/internal/server"
	"github.com/STTM-NSU/trading-app/internal/stub"
	"github.com/joho/godotenv"
)

const (
	_appCfgFilePath = "./configs/app.yaml"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("can't detect .env file")
	}

	cfg, err := config.LoadAppConfig(_appCfgFilePath)
	if err != nil {
		log.Fatalf("%s: can't load app cfg", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLogLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend := stub.NewBackend(zapLogger.With("component", "stub"))
	srv := server.NewHTTPServer(ctx, cfg.Stub.Port, backend.Router(), zapLogger)

	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatalf("%s: can't run stub backend", err)
	}
}
