package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

type Config struct {
	HTTPAddr          string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBDir             string     `env:"DB_DIR" envDefault:"data"`
	DefaultChart      string     `env:"DEFAULT_CHART" envDefault:"solent"`
	SeedGPX           string     `env:"SEED_GPX"`
	LogLevel          slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir            string     `env:"SPA_DIR" envDefault:"../web/dist"`
	CORSOrigins       []string   `env:"CORS_ORIGINS" envSeparator:","`
	AdminUser         string     `env:"ADMIN_USER" envDefault:"admin"`
	AdminPasswordHash string     `env:"ADMIN_PASSWORD_HASH"`
}

// GameConfig drives the terminal game.
type GameConfig struct {
	Difficulty markquiz.Difficulty `env:"DIFFICULTY" envDefault:"beginner"`
	Options    int                 `env:"OPTIONS" envDefault:"5"`
	TimeLimit  int                 `env:"TIME_LIMIT"`
	Hints      bool                `env:"HINTS" envDefault:"true"`
	AuxLayer   bool                `env:"AUX_LAYER"`
	GPX        string              `env:"GPX" envDefault:"data/marks.gpx"`
	LogLevel   slog.Level          `env:"LOG_LEVEL" envDefault:"WARN"`
}

// Quiz converts the environment settings into an engine config.
func (g GameConfig) Quiz() markquiz.Config {
	return markquiz.Config{
		Difficulty:       g.Difficulty,
		OptionCount:      g.Options,
		TimeLimitSeconds: g.TimeLimit,
		HintsEnabled:     g.Hints,
		AuxLayerEnabled:  g.AuxLayer,
	}
}

// Load reads server settings from the environment, after applying a .env
// file from the working directory if one exists.
func Load() (*Config, error) {
	loadDotEnv()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// LoadGame reads MARKQUIZ_* settings and validates the resulting engine config.
func LoadGame() (*GameConfig, error) {
	loadDotEnv()

	cfg, err := env.ParseAsWithOptions[GameConfig](env.Options{Prefix: "MARKQUIZ_"})
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Quiz().Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	return &cfg, nil
}

func loadDotEnv() {
	// A missing .env is normal in production.
	_ = godotenv.Load()
}
