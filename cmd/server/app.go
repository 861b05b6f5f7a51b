// cmd/server/app.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtbook/internal/booking"
	"github.com/codr1/courtbook/internal/config"
	"github.com/codr1/courtbook/internal/courts"
	"github.com/codr1/courtbook/internal/db"
	"github.com/codr1/courtbook/internal/events"
	"github.com/codr1/courtbook/internal/lock"
	"github.com/codr1/courtbook/internal/mq"
)

const redisPingTimeout = 2 * time.Second

// paymentRunner is a long-running payment consumer.
type paymentRunner interface {
	Run(ctx context.Context) error
}

// app holds the wired components and the order to close them in.
type app struct {
	db       *db.DB
	redis    *redis.Client
	engine   *booking.Engine
	courts   *courts.Directory
	payments paymentRunner
	closers  []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	logger := log.Ctx(ctx).With().Str("component", "app").Logger()
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.db, err = db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.closers = append(a.closers, a.db.Close)

	a.courts, err = courts.NewDirectory(a.db.Queries)
	if err != nil {
		return nil, err
	}

	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Enabled {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, a.redis.Close)

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := a.redis.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis at %s: %w", cfg.Redis.Addr, err)
		}
		locker, err = lock.NewRedis(a.redis, cfg.Redis.LockTTL)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis slot locks")
	}

	publishers := events.Multi{events.LogPublisher{}}
	switch cfg.Broker.Driver {
	case "rabbitmq":
		rc := cfg.Broker.RabbitMQ
		publisher, err := mq.NewPublisher(rc.URL, rc.Exchange)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, publisher.Close)
		publishers = append(publishers, publisher)
	case "kafka":
		publisher := mq.NewKafkaPublisher(cfg.Broker.Kafka.Brokers, cfg.Broker.Kafka.EventsTopic)
		a.closers = append(a.closers, publisher.Close)
		publishers = append(publishers, publisher)
	}

	a.engine, err = booking.NewEngine(a.db, a.courts,
		booking.WithConfig(engineConfig(cfg)),
		booking.WithLocker(locker),
		booking.WithPublisher(publishers),
	)
	if err != nil {
		return nil, fmt.Errorf("build booking engine: %w", err)
	}

	switch cfg.Broker.Driver {
	case "rabbitmq":
		rc := cfg.Broker.RabbitMQ
		consumer, err := mq.NewConsumer(rc.URL, rc.Exchange, rc.PaymentsQueue, mq.PaymentKeys)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, consumer.Close)
		a.payments = mq.NewPaymentConsumer(a.engine, consumer)
		logger.Info().Str("exchange", rc.Exchange).Str("queue", rc.PaymentsQueue).Msg("Using RabbitMQ broker")
	case "kafka":
		kc := cfg.Broker.Kafka
		consumer := mq.NewKafkaPaymentConsumer(kc.Brokers, kc.PaymentsTopic, kc.GroupID, a.engine)
		a.closers = append(a.closers, consumer.Close)
		a.payments = consumer
		logger.Info().Strs("brokers", kc.Brokers).Str("events_topic", kc.EventsTopic).Msg("Using Kafka broker")
	default:
		logger.Info().Msg("No broker configured, booking events go to the log only")
	}
	return a, nil
}

func engineConfig(cfg *config.Config) booking.Config {
	return booking.Config{
		PaymentHold:        cfg.Booking.PaymentHold,
		NoShowGrace:        cfg.Booking.NoShowGrace,
		CheckInOpensBefore: cfg.Booking.CheckInOpensBefore,
		LockTimeout:        cfg.Booking.LockTimeout,
		MaxRecurringWeeks:  cfg.Booking.MaxRecurringWeeks,
		SweepBatchSize:     cfg.Scanner.BatchSize,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("Error closing resource")
		}
	}
	a.closers = nil
}
