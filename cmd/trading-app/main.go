package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/STTM-NSU/trading-app/internal/api"
	"github.com/STTM-NSU/trading-app/internal/app"
	"github.com/STTM-NSU/trading-app/internal/config"
	"github.com/STTM-NSU/trading-app/internal/logger"
	"github.com/STTM-NSU/trading-app/internal/view"
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

	// stdout belongs to the terminal front-end
	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLogLevel(cfg.LogLevel), "stderr")
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := api.New(cfg.Backend, zapLogger.With("component", "api"))
	defer func() {
		if err := client.Close(); err != nil {
			zapLogger.Warnf("%s: can't close api client", err)
		}
	}()

	if h, err := client.Health(ctx); err != nil {
		zapLogger.Warnf("%s: backend %s is not reachable", err, client.BaseURL())
	} else {
		zapLogger.Infof("backend %s is %s", client.BaseURL(), h.Status)
	}

	ctrl := app.NewController(client, cfg, zapLogger.With("component", "app"))
	term := view.NewTerminal(ctrl, os.Stdin, os.Stdout, zapLogger)

	if err := term.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zapLogger.Errorf("%s: terminal stopped", err)
	}
}
