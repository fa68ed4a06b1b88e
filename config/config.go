package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Telegram TelegramConfig
	Filter   FilterConfig
}

type AppConfig struct {
	Environment  string
	LogFilePath  string
	MetricsAddr  string // empty disables the /metrics listener
	SessionTTL   time.Duration
	AssetsDir    string // bundled dish pictures
	MenuSeedFile string // empty uses the embedded menu
}

type DBConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	JournalEnabled bool
	AutoMigrate    bool // apply embedded migrations on serve
}

type TelegramConfig struct {
	Token string
}

// FilterConfig bounds the price stepper on the filter screen.
type FilterConfig struct {
	MinPrice  int64
	MaxPrice  int64
	PriceStep int64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Environment:  getEnv("GO_ENV", "development"),
			LogFilePath:  getEnv("LOG_FILE_PATH", "kitchen-menu.log"),
			MetricsAddr:  getEnv("METRICS_ADDR", ""),
			SessionTTL:   time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
			AssetsDir:    getEnv("ASSETS_DIR", "assets"),
			MenuSeedFile: getEnv("MENU_SEED_FILE", ""),
		},
		DB: DBConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvAsInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			Database:       getEnv("DB_NAME", "kitchen_menu"),
			JournalEnabled: getEnvAsBool("JOURNAL_ENABLED", false),
			AutoMigrate:    getEnvAsBool("AUTO_MIGRATE", false),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
		},
		Filter: FilterConfig{
			MinPrice:  int64(getEnvAsInt("FILTER_MIN_PRICE", 50)),
			MaxPrice:  int64(getEnvAsInt("FILTER_MAX_PRICE", 500)),
			PriceStep: int64(getEnvAsInt("FILTER_PRICE_STEP", 10)),
		},
	}, nil
}

// IsProduction reports whether GO_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	v := strings.TrimSpace(getEnv(key, ""))
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}
