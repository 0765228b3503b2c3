package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	GeminiAPIKey     string        `mapstructure:"gemini_api_key"`
	PlanModel        string        `mapstructure:"plan_model"`
	FlashModel       string        `mapstructure:"flash_model"`
	DatabaseURL      string        `mapstructure:"database_url"`
	RemoteDriver     string        `mapstructure:"remote_driver"`
	RemoteDSN        string        `mapstructure:"remote_dsn"`
	HTTPPort         string        `mapstructure:"http_port"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFile          string        `mapstructure:"log_file"`
	JWTSecret        string        `mapstructure:"jwt_secret"`
	ChatHistoryLimit int           `mapstructure:"chat_history_limit"`
	NotificationTTL  time.Duration `mapstructure:"notification_ttl"`
	SavedLimit       int           `mapstructure:"saved_limit"`
	MaxImageBytes    int64         `mapstructure:"max_image_bytes"`
	AWSRegion        string        `mapstructure:"aws_region"`
	S3Bucket         string        `mapstructure:"s3_bucket"`
	PhotoBaseURL     string        `mapstructure:"photo_base_url"`
	FoodGuardEnabled bool          `mapstructure:"food_guard_enabled"`
}

var AppConfig Config

var keys = []string{
	"gemini_api_key", "plan_model", "flash_model", "database_url", "remote_driver", "remote_dsn",
	"http_port", "log_level", "log_file", "jwt_secret", "chat_history_limit", "notification_ttl",
	"saved_limit", "max_image_bytes", "aws_region", "s3_bucket", "photo_base_url", "food_guard_enabled",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("plan_model", "gemini-2.5-pro")
	v.SetDefault("flash_model", "gemini-2.5-flash")
	v.SetDefault("database_url", "nutiai_local.db")
	v.SetDefault("remote_driver", "sqlite")
	v.SetDefault("remote_dsn", "nutiai_remote.db")
	v.SetDefault("http_port", "8080")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("chat_history_limit", 10)
	v.SetDefault("notification_ttl", 6*time.Second)
	v.SetDefault("saved_limit", 10)
	v.SetDefault("max_image_bytes", 8<<20)
}

// LoadConfig reads .env, an optional config.yaml and the environment, in
// increasing order of precedence.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil { // Load .env file if it exists
		log.Println("No .env file found, relying on environment variables")
	}

	v := viper.GetViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		// AutomaticEnv only covers keys viper already knows about.
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	AppConfig = cfg
	return nil
}

// Require checks the settings the HTTP server cannot start without.
func (c Config) Require() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return nil
}

// WatchLogLevel calls apply with the new log level whenever config.yaml changes.
func WatchLogLevel(apply func(level string)) {
	v := viper.GetViper()
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		level := v.GetString("log_level")
		AppConfig.LogLevel = level
		apply(level)
	})
	v.WatchConfig()
}
