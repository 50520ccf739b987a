package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NadavFredi/diet-neta-sub003/internal"
	"github.com/NadavFredi/diet-neta-sub003/internal/config"
	"github.com/NadavFredi/diet-neta-sub003/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "diet-neta-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	redisPassword := os.Getenv("DIET_NETA_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use DIET_NETA_REDIS_PASS env var to set it")
	}

	tracingEnabled := os.Getenv("OTEL_SDK_DISABLED") != "true"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:         cfg,
		RedisPassword:  redisPassword,
		TracingEnabled: tracingEnabled,
	})
	if err != nil {
		log.Fatalf("failed to create server: %s", err)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, syscall.SIGINT, syscall.SIGTERM)

	go server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received ...", receivedSig)

	cancel()
	server.GracefulShutdown()
}
