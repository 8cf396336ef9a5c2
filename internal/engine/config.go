package engine

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"warrior-server/internal/domain"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно всех бросков: бой, дропы, погода, травмы.
	Seed       int64
	Difficulty domain.Difficulty

	// MaxDelta - потолок dt одного кадра в секундах
	MaxDelta float64
	TickRate int

	SavePath string
	SaveSlot string
	Port     string

	// ContentDir - каталог с YAML, перекрывающими встроенный контент. Пусто - только встроенный.
	ContentDir string
	PlayerName string

	// AutoAdvance листает диалоги и титульный экран сам (безголовый режим)
	AutoAdvance bool
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:        time.Now().UnixNano(),
		Difficulty:  domain.DifficultyNormal,
		MaxDelta:    0.05,
		TickRate:    60,
		SavePath:    "data/warrior.db",
		SaveSlot:    "default",
		Port:        "8080",
		PlayerName:  "Kaze",
		AutoAdvance: true,
	}
}

// FromEnv накладывает переменные окружения WARRIOR_* поверх текущих значений.
func (c *Config) FromEnv() error {
	if v, ok := os.LookupEnv("WARRIOR_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("WARRIOR_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv("WARRIOR_DIFFICULTY"); ok {
		d, valid := domain.ParseDifficulty(v)
		if !valid {
			return fmt.Errorf("WARRIOR_DIFFICULTY: unknown difficulty %q", v)
		}
		c.Difficulty = d
	}
	if v, ok := os.LookupEnv("WARRIOR_SAVE_PATH"); ok {
		c.SavePath = v
	}
	if v, ok := os.LookupEnv("WARRIOR_PORT"); ok {
		c.Port = v
	}
	if v, ok := os.LookupEnv("WARRIOR_CONTENT_DIR"); ok {
		c.ContentDir = v
	}
	return nil
}

// TickInterval - период игрового цикла
func (c Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}
