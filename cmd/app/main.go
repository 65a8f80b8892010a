package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JasonLinn/cryo-booking/config"
	"github.com/JasonLinn/cryo-booking/internal/auth"
	"github.com/JasonLinn/cryo-booking/internal/availability"
	"github.com/JasonLinn/cryo-booking/internal/bootstrap"
	"github.com/JasonLinn/cryo-booking/internal/cache"
	"github.com/JasonLinn/cryo-booking/internal/kafka"
	"github.com/JasonLinn/cryo-booking/internal/logger"
	"github.com/JasonLinn/cryo-booking/internal/mq"
	"github.com/JasonLinn/cryo-booking/internal/repository"
	"github.com/JasonLinn/cryo-booking/internal/service/booking"
	"github.com/JasonLinn/cryo-booking/internal/service/equipment"
	"github.com/JasonLinn/cryo-booking/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

	if err := run(cfg, log); err != nil {
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		return err
	}

	loc, err := cfg.Booking.Location()
	if err != nil {
		return err
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.EquipmentCacheTTL())
	defer redisCache.Close()

	producer, closeProducer, err := newProducer(cfg)
	if err != nil {
		return err
	}
	defer closeProducer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	equipmentRepo := repository.NewEquipmentRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	evaluator := availability.NewEvaluator(cfg.Booking.Holidays, availability.WithLocation(loc))
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.AccessTTLMinutes)*time.Minute)

	opts := []booking.BookingServiceOption{
		booking.WithCache(redisCache),
		booking.WithBusinessHours(cfg.Booking.SlotStartHour, cfg.Booking.SlotEndHour, cfg.Booking.SlotLength()),
	}
	if producer != nil {
		opts = append(opts, booking.WithProducer(producer, cfg.Notifications.Topic))
	}
	bookingService := booking.NewBookingService(bookingRepo, equipmentRepo, userRepo, evaluator, log, opts...)
	equipmentService := equipment.NewEquipmentService(equipmentRepo, redisCache, log)
	userService := users.NewUserService(userRepo, tokens, cfg.Auth.BcryptCost, log)

	if _, err := userService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName); err != nil {
		return err
	}

	checks := map[string]bootstrap.HealthCheck{
		"postgres": pool.Ping,
		"redis":    redisCache.Ping,
	}
	if p, ok := producer.(interface{ CheckConnection(context.Context) error }); ok {
		checks["kafka"] = p.CheckConnection
	}

	return bootstrap.Run(ctx, cfg, log, bootstrap.Deps{
		Bookings:  bookingService,
		Equipment: equipmentService,
		Users:     userService,
		Tokens:    tokens,
		Location:  loc,
		Checks:    checks,
	})
}

// newProducer picks the notification broker. With the "none" driver the
// booking service publishes nothing.
func newProducer(cfg *config.Config) (booking.Producer, io.Closer, error) {
	switch cfg.Notifications.Driver {
	case config.DriverRabbitMQ:
		p, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case config.DriverNone:
		return nil, nopCloser{}, nil
	default:
		p := kafka.NewProducer(cfg.Kafka.Brokers)
		return p, p, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
