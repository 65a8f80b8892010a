package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JasonLinn/cryo-booking/config"
	"github.com/JasonLinn/cryo-booking/internal/email"
	"github.com/JasonLinn/cryo-booking/internal/kafka"
	"github.com/JasonLinn/cryo-booking/internal/logger"
	"github.com/JasonLinn/cryo-booking/internal/mq"
)

type consumer interface {
	Consume(ctx context.Context, handler func(ctx context.Context, payload []byte) error) error
	Close() error
}

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if cfg.Notifications.Driver == config.DriverNone {
		log.Info("notifications disabled, worker has nothing to do")
		return
	}

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Error("load timezone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var sender email.Sender
	if cfg.SMTP.Configured() {
		sender = email.NewSMTPSender(cfg.SMTP)
	} else {
		log.Warn("smtp credentials missing, emails will be skipped")
	}
	dispatcher := email.NewDispatcher(sender, cfg.Notifications.AdminEmails, loc, log)

	c, err := newConsumer(cfg)
	if err != nil {
		log.Error("create consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- c.Consume(ctx, handler(cfg.Notifications.Driver, dispatcher, log))
	}()
	log.Info("worker started", slog.String("driver", cfg.Notifications.Driver))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info("shutting down", slog.String("signal", s.String()))
		cancel()
		<-done
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("consumer stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}

func newConsumer(cfg *config.Config) (consumer, error) {
	if cfg.Notifications.Driver == config.DriverRabbitMQ {
		return mq.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue,
			[]string{cfg.Notifications.Topic})
	}
	return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Notifications.Topic), nil
}

// handler wraps the dispatcher for the broker. The Kafka consumer stops on
// the first handler error, so delivery failures are only logged there;
// RabbitMQ gets the error and rejects the message.
func handler(driver string, d *email.Dispatcher, log *slog.Logger) func(ctx context.Context, payload []byte) error {
	return func(ctx context.Context, payload []byte) error {
		err := d.HandleMessage(ctx, payload)
		if err == nil {
			return nil
		}
		log.Error("handle booking event", slog.String("error", err.Error()))
		if driver == config.DriverRabbitMQ {
			return err
		}
		return nil
	}
}
