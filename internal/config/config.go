package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string

	// AdminIDs — Telegram ID администраторов (команды /link, /unlink и т.д.)
	AdminIDs []int64

	// TicketPrefix — префикс анонимного тикета студента (например "S" -> S1234)
	TicketPrefix string

	// ThreadTTL — сколько живёт запись маршрутизации ответа куратора
	ThreadTTL time.Duration

	// ThreadEvictInterval — как часто запускается фоновая чистка threads
	ThreadEvictInterval time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	// Читаем напрямую из переменных окружения (после godotenv.Load они там)
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		TicketPrefix:  os.Getenv("TICKET_PREFIX"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.TicketPrefix == "" {
		cfg.TicketPrefix = "S"
	}

	admins, err := ParseIDList(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("parse ADMIN_IDS: %w", err)
	}
	cfg.AdminIDs = admins

	ttl, err := parseHours(os.Getenv("THREAD_TTL_HOURS"), 72)
	if err != nil {
		return nil, fmt.Errorf("parse THREAD_TTL_HOURS: %w", err)
	}
	cfg.ThreadTTL = ttl

	evict, err := parseHours(os.Getenv("THREAD_EVICT_INTERVAL_HOURS"), 6)
	if err != nil {
		return nil, fmt.Errorf("parse THREAD_EVICT_INTERVAL_HOURS: %w", err)
	}
	cfg.ThreadEvictInterval = evict

	// Проверяем обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// IsAdmin проверяет, входит ли пользователь в список администраторов
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// ParseIDList разбирает список Telegram ID через запятую: "123, 456"
func ParseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseHours(raw string, def int) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Duration(def) * time.Hour, nil
	}
	hours, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid hours value %q: %w", raw, err)
	}
	if hours <= 0 {
		return 0, fmt.Errorf("hours must be positive, got %d", hours)
	}
	return time.Duration(hours) * time.Hour, nil
}
