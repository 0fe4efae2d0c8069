package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tradekit/matchtrade/config"
	"github.com/tradekit/matchtrade/pkg/core"
	"github.com/tradekit/matchtrade/pkg/db/queue"
	"github.com/tradekit/matchtrade/pkg/logging"
	"github.com/tradekit/matchtrade/pkg/messaging"
	"github.com/tradekit/matchtrade/pkg/messaging/redisfeed"
	"github.com/tradekit/matchtrade/pkg/otel"
	"github.com/tradekit/matchtrade/pkg/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(logging.Config{
		Level:  cfg.Server.LogLevel,
		Pretty: cfg.Server.LogFormat == "pretty",
	})

	cleanup, err := otel.Init(otel.Config{
		ServiceName:    "matchtrade",
		ServiceVersion: "1.0.0",
		Endpoint:       cfg.Otel.Endpoint,
		Enabled:        cfg.Otel.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OpenTelemetry")
	}
	defer cleanup()

	senders := make(map[string]messaging.EventSender)

	if cfg.Kafka.Enabled {
		queue.SetBrokerList(cfg.Kafka.BrokerAddr)
		queue.SetTopic(cfg.Kafka.Topic)

		// probe connectivity once before committing the whole pool
		probe, err := queue.NewQueueEventSender()
		if err != nil {
			log.Fatal().Err(err).Str("broker", cfg.Kafka.BrokerAddr).Msg("Failed to connect to Kafka")
		}
		probe.Close()

		sender := queue.NewPooledEventSender()
		senders["kafka"] = sender
		defer sender.Close()
		log.Info().Str("broker", cfg.Kafka.BrokerAddr).Str("topic", cfg.Kafka.Topic).Msg("Kafka sender pool ready")
	}

	if cfg.Redis.Enabled {
		sender, err := redisfeed.NewRedisEventSender(cfg.Redis.Addr, cfg.Redis.Channel)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		}
		senders["redis"] = sender
		defer sender.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Str("channel", cfg.Redis.Channel).Msg("Redis sender ready")
	}

	engine := core.NewEngine()
	srv := server.NewServer(engine, senders, server.Options{
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
		AllowOrigins: splitOrigins(cfg.Server.AllowOrigins),
	})

	// every configured symbol publishes to the WebSocket feed; the
	// Kafka and Redis pipelines are fanned in when enabled
	fanout := []messaging.EventSender{server.NewFeedSender(srv.Hub())}
	for _, name := range []string{"kafka", "redis"} {
		if sender, ok := senders[name]; ok {
			fanout = append(fanout, sender)
		}
	}
	for _, symbol := range cfg.Symbols {
		engine.AddBook(symbol, messaging.NewSink(symbol, messaging.NewFanout(fanout...)))
		log.Info().Str("symbol", symbol).Msg("Order book registered")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx, cfg.Server.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
	log.Info().Msg("Server shutdown complete")
}

func splitOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
