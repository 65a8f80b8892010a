package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/JasonLinn/cryo-booking/api"
	"github.com/JasonLinn/cryo-booking/config"
	"github.com/JasonLinn/cryo-booking/internal/service/booking"
	"github.com/JasonLinn/cryo-booking/internal/service/equipment"
	"github.com/JasonLinn/cryo-booking/internal/service/users"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// HealthCheck runs on GET /health; a failing check turns the response
// into 503.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Bookings  booking.BookingUseCase
	Equipment equipment.EquipmentUseCase
	Users     users.UserUseCase
	Tokens    api.TokenParser
	Location  *time.Location
	Checks    map[string]HealthCheck
}

// Run serves the HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger, deps Deps) error {
	if cfg.HTTP.Mode != "" {
		gin.SetMode(cfg.HTTP.Mode)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      NewRouter(log, deps),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", cfg.HTTP.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Info("http server stopped")
		return nil
	}
}

func NewRouter(log *slog.Logger, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/health", health(deps.Checks))

	apiGroup := r.Group("/api", api.Authenticate(deps.Tokens))
	api.NewAuthHandler(deps.Users, log).Register(apiGroup.Group("/auth"))
	api.NewEquipmentHandler(deps.Equipment, log).Register(apiGroup.Group("/equipment"))
	api.NewBookingHandler(deps.Bookings, log).Register(apiGroup.Group("/bookings"))
	api.NewAvailabilityHandler(deps.Bookings, deps.Location, log).Register(apiGroup.Group("/availability"))

	return r
}

func health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		body := gin.H{"status": "ok", "checks": results}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		c.JSON(status, body)
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()))
	}
}
