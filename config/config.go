package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Env         string
	DatabaseURL string
	DB          DBConfig
	// ADMIN_BOT_TOKEN и ADMIN_TELEGRAM_ID необязательны: без них уведомления только в журнал
	AdminBotToken   string
	AdminTelegramID int64
	BackupDir       string
	HTTPAddr        string
}

type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

var AppCfg AppConfig

// LoadConfig читает .env (если есть) и переменные окружения в AppCfg
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on environment variables")
	}
	cfg, err := FromEnv()
	if err != nil {
		return err
	}
	AppCfg = cfg
	return nil
}

// FromEnv собирает конфигурацию только из окружения
func FromEnv() (AppConfig, error) {
	cfg := AppConfig{
		Env:           getEnv("ENV", "development"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AdminBotToken: os.Getenv("ADMIN_BOT_TOKEN"),
		BackupDir:     getEnv("BACKUP_DIR", "backups"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DB: DBConfig{
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		},
	}
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL not set")
	}

	var err error
	if cfg.AdminTelegramID, err = getInt64("ADMIN_TELEGRAM_ID", 0); err != nil {
		return cfg, err
	}
	maxOpen, err := getInt64("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return cfg, err
	}
	maxIdle, err := getInt64("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return cfg, err
	}
	cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns = int(maxOpen), int(maxIdle)
	if cfg.DB.ConnMaxLifetime, err = time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "5m")); err != nil {
		return cfg, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
