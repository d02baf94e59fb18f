package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken     string
	SheetID      string
	AllowedUsers []int64

	// Авторизация сервисного аккаунта: путь к файлу или JSON целиком.
	CredentialsFile string
	CredentialsJSON string

	TransactionsSheet string
	SettingsSheet     string
	TimezoneOffset    int // часы от UTC для даты записи
	LogLevel          string
}

// Load читает конфигурацию из окружения. Файл .env подхватывается,
// если есть; его отсутствие не ошибка.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:          os.Getenv("BOT_TOKEN"),
		SheetID:           os.Getenv("SHEET_ID"),
		CredentialsFile:   os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		CredentialsJSON:   os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		TransactionsSheet: getEnv("TRANSACTIONS_SHEET", "Транзакции"),
		SettingsSheet:     getEnv("SETTINGS_SHEET", "Settings"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	users, err := ParseUserIDs(os.Getenv("ALLOWED_USERS"))
	if err != nil {
		return nil, fmt.Errorf("ALLOWED_USERS: %w", err)
	}
	cfg.AllowedUsers = users

	offset, err := getEnvInt("TIMEZONE_OFFSET", 4)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE_OFFSET: %w", err)
	}
	cfg.TimezoneOffset = offset

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate собирает все проблемы конфигурации в одну ошибку.
func (c *Config) Validate() error {
	var problems []string

	if c.BotToken == "" {
		problems = append(problems, "BOT_TOKEN is required")
	}
	if c.SheetID == "" {
		problems = append(problems, "SHEET_ID is required")
	}
	if len(c.AllowedUsers) == 0 {
		problems = append(problems, "ALLOWED_USERS must list at least one telegram user id")
	}
	if c.CredentialsFile == "" && c.CredentialsJSON == "" {
		problems = append(problems, "set GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON")
	}
	if c.TimezoneOffset < -12 || c.TimezoneOffset > 14 {
		problems = append(problems, fmt.Sprintf("TIMEZONE_OFFSET %d is outside -12..14", c.TimezoneOffset))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ParseUserIDs разбирает список идентификаторов вида "123, 456".
func ParseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", v)
	}
	return n, nil
}
