package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Availability store.
	StoreBackend string `mapstructure:"STORE_BACKEND"` // "mongo" or "memory"
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Provider and schedule shape.
	ProviderID        string   `mapstructure:"PROVIDER_ID"`
	Locations         []string `mapstructure:"LOCATIONS"`
	SlotsPerSession   int      `mapstructure:"SLOTS_PER_SESSION"`
	MorningStart      string   `mapstructure:"MORNING_START"`
	MorningEnd        string   `mapstructure:"MORNING_END"`
	AfternoonStart    string   `mapstructure:"AFTERNOON_START"`
	AfternoonEnd      string   `mapstructure:"AFTERNOON_END"`
	BookingWindowDays int      `mapstructure:"BOOKING_WINDOW_DAYS"`
	ProviderTimezone  string   `mapstructure:"PROVIDER_TIMEZONE"`

	// Conversation sessions.
	SessionBackend string        `mapstructure:"SESSION_BACKEND"` // "redis" or "memory"
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Notifications.
	NotifyBackend           string        `mapstructure:"NOTIFY_BACKEND"` // "queue", "push" or "log"
	NotifyConcurrency       int           `mapstructure:"NOTIFY_CONCURRENCY"`
	FirebaseCredentialsPath string        `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	ReminderLead            time.Duration `mapstructure:"REMINDER_LEAD"`

	// Dialogue gateway.
	GatewayJWTSecret string `mapstructure:"GATEWAY_JWT_SECRET"`
	MaxEventsPerMin  int    `mapstructure:"MAX_EVENTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if AppConfig.ProviderID == "" {
		log.Fatal("PROVIDER_ID must be set")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "medibook")
	v.SetDefault("PROVIDER_ID", "")
	v.SetDefault("LOCATIONS", []string{"Abet Hospital", "Ethio Tebib Hospital", "Girum Hospital"})
	v.SetDefault("SLOTS_PER_SESSION", 10)
	v.SetDefault("MORNING_START", "08:30")
	v.SetDefault("MORNING_END", "12:00")
	v.SetDefault("AFTERNOON_START", "14:00")
	v.SetDefault("AFTERNOON_END", "17:00")
	v.SetDefault("BOOKING_WINDOW_DAYS", 7)
	v.SetDefault("PROVIDER_TIMEZONE", "Local")
	v.SetDefault("SESSION_BACKEND", "redis")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("NOTIFY_BACKEND", "queue")
	v.SetDefault("NOTIFY_CONCURRENCY", 4)
	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	v.SetDefault("REMINDER_LEAD", "2h")
	v.SetDefault("GATEWAY_JWT_SECRET", "")
	v.SetDefault("MAX_EVENTS_PER_MIN", 30)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location returns the provider-local time zone all dates are computed in.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.ProviderTimezone)
	if err != nil {
		log.Printf("Unknown PROVIDER_TIMEZONE %q, falling back to local time", AppConfig.ProviderTimezone)
		return time.Local
	}
	return loc
}
