package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/JasonLinn/cryo-booking/internal/availability"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g.
// CRYO_DATABASE_PASSWORD or CRYO_AUTH_JWT_SECRET.
const EnvPrefix = "CRYO"

type Config struct {
	HTTP          HTTPConfig          `yaml:"http" envconfig:"HTTP"`
	Log           LogConfig           `yaml:"log" envconfig:"LOG"`
	Database      DatabaseConfig      `yaml:"database" envconfig:"DATABASE"`
	Redis         RedisConfig         `yaml:"redis" envconfig:"REDIS"`
	Kafka         KafkaConfig         `yaml:"kafka" envconfig:"KAFKA"`
	RabbitMQ      RabbitMQConfig      `yaml:"rabbitmq" envconfig:"RABBITMQ"`
	Notifications NotificationsConfig `yaml:"notifications" envconfig:"NOTIFICATIONS"`
	SMTP          SMTPConfig          `yaml:"smtp" envconfig:"SMTP"`
	Auth          AuthConfig          `yaml:"auth" envconfig:"AUTH"`
	Booking       BookingConfig       `yaml:"booking" envconfig:"BOOKING"`
}

type HTTPConfig struct {
	Address      string        `yaml:"address" envconfig:"ADDRESS" validate:"required"`
	Mode         string        `yaml:"mode" envconfig:"MODE" validate:"omitempty,oneof=debug release test"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"omitempty,oneof=json text"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"HOST" validate:"required"`
	Port     int    `yaml:"port" envconfig:"PORT" validate:"required,min=1,max=65535"`
	User     string `yaml:"user" envconfig:"USER" validate:"required"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	Name     string `yaml:"name" envconfig:"NAME" validate:"required"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"SSL_MODE"`
}

func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, sslMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"ADDR"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	DB       int    `yaml:"db" envconfig:"DB"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" envconfig:"BROKERS"`
	GroupID string   `yaml:"group_id" envconfig:"GROUP_ID"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url" envconfig:"URL"`
	Exchange string `yaml:"exchange" envconfig:"EXCHANGE"`
	Queue    string `yaml:"queue" envconfig:"QUEUE"`
}

const (
	DriverKafka    = "kafka"
	DriverRabbitMQ = "rabbitmq"
	DriverNone     = "none"
)

// NotificationsConfig selects the broker for booking events. Topic is the
// Kafka topic or the RabbitMQ routing key, depending on Driver.
type NotificationsConfig struct {
	Driver      string   `yaml:"driver" envconfig:"DRIVER" validate:"omitempty,oneof=kafka rabbitmq none"`
	Topic       string   `yaml:"topic" envconfig:"TOPIC" validate:"required"`
	AdminEmails []string `yaml:"admin_emails" envconfig:"ADMIN_EMAILS" validate:"dive,email"`
}

type SMTPConfig struct {
	Host      string `yaml:"host" envconfig:"HOST"`
	Port      int    `yaml:"port" envconfig:"PORT"`
	Username  string `yaml:"username" envconfig:"USERNAME"`
	Password  string `yaml:"password" envconfig:"PASSWORD"`
	Secure    bool   `yaml:"secure" envconfig:"SECURE"`
	FromName  string `yaml:"from_name" envconfig:"FROM_NAME"`
	FromEmail string `yaml:"from_email" envconfig:"FROM_EMAIL"`
}

// Configured reports whether credentials are present. Without them email
// delivery is skipped.
func (s SMTPConfig) Configured() bool {
	return s.Username != "" && s.Password != ""
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret" envconfig:"JWT_SECRET" validate:"required,min=16"`
	AccessTTLMinutes int    `yaml:"access_ttl_minutes" envconfig:"ACCESS_TTL_MINUTES"`
	BcryptCost       int    `yaml:"bcrypt_cost" envconfig:"BCRYPT_COST" validate:"omitempty,min=4,max=31"`
	AdminEmail       string `yaml:"admin_email" envconfig:"ADMIN_EMAIL" validate:"omitempty,email"`
	AdminPassword    string `yaml:"admin_password" envconfig:"ADMIN_PASSWORD"`
	AdminName        string `yaml:"admin_name" envconfig:"ADMIN_NAME"`
}

type BookingConfig struct {
	Timezone                 string                 `yaml:"timezone" envconfig:"TIMEZONE"`
	EquipmentCacheTTLSeconds int                    `yaml:"equipment_cache_ttl_seconds" envconfig:"EQUIPMENT_CACHE_TTL_SECONDS"`
	SlotStartHour            int                    `yaml:"slot_start_hour" envconfig:"SLOT_START_HOUR" validate:"min=0,max=23"`
	SlotEndHour              int                    `yaml:"slot_end_hour" envconfig:"SLOT_END_HOUR" validate:"min=0,max=24,gtfield=SlotStartHour"`
	SlotMinutes              int                    `yaml:"slot_minutes" envconfig:"SLOT_MINUTES" validate:"min=1"`
	Holidays                 []availability.Holiday `yaml:"holidays" ignored:"true" validate:"dive"`
}

func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(b.Timezone)
}

func (b BookingConfig) EquipmentCacheTTL() time.Duration {
	return time.Duration(b.EquipmentCacheTTLSeconds) * time.Second
}

func (b BookingConfig) SlotLength() time.Duration {
	return time.Duration(b.SlotMinutes) * time.Minute
}

func defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			Mode:         "release",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log:           LogConfig{Level: "info", Format: "json"},
		Database:      DatabaseConfig{Port: 5432, SSLMode: "disable"},
		Kafka:         KafkaConfig{GroupID: "cryo-booking-worker"},
		RabbitMQ:      RabbitMQConfig{Exchange: "cryo.booking", Queue: "cryo.booking.notifications"},
		Notifications: NotificationsConfig{Driver: DriverKafka, Topic: "booking.notifications"},
		SMTP:          SMTPConfig{Host: "smtp.gmail.com", Port: 587, FromName: "CRYO Booking"},
		Auth:          AuthConfig{AccessTTLMinutes: 60 * 24, BcryptCost: 10, AdminName: "Administrator"},
		Booking: BookingConfig{
			Timezone:                 "Asia/Taipei",
			EquipmentCacheTTLSeconds: 60,
			SlotStartHour:            9,
			SlotEndHour:              18,
			SlotMinutes:              60,
		},
	}
}

// LoadConfig reads .env (if any), the YAML file at path and then applies
// CRYO_* environment overrides before validating the result.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("invalid config: booking.timezone: %w", err)
	}
	switch c.Notifications.Driver {
	case DriverKafka:
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("invalid config: kafka.brokers is required for the kafka driver")
		}
	case DriverRabbitMQ:
		if c.RabbitMQ.URL == "" {
			return errors.New("invalid config: rabbitmq.url is required for the rabbitmq driver")
		}
	}
	return nil
}
