// Package config загружает настройки бота из YAML, .env и окружения.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // таймзона daily должна грузиться и без системной базы

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/EgorLis/stepbot/internal/discord"
	"github.com/EgorLis/stepbot/internal/probe"
	"github.com/EgorLis/stepbot/internal/selector"
	"github.com/EgorLis/stepbot/internal/step"
)

const (
	DefaultPath     = "conf/stepbot.yaml"
	DefaultDBPath   = "data/stepbot.db"
	DefaultPrefix   = "!"
	DefaultCommand  = "step"
	DefaultDaily    = "12:00"
	DefaultTimezone = "UTC"

	// переменная окружения с токеном, перекрывает файл
	TokenEnv = "DISCORD_TOKEN"
)

type Config struct {
	Discord  discord.Config  `yaml:"discord"`
	Bot      BotConfig       `yaml:"bot"`
	Step     StepConfig      `yaml:"step"`
	Selector selector.Config `yaml:"selector"`
	Daily    DailyConfig     `yaml:"daily"`
	Store    StoreConfig     `yaml:"store"`
	Logging  LoggingConfig   `yaml:"logging"`
}

type BotConfig struct {
	Prefix      string `yaml:"prefix"`
	Command     string `yaml:"command"`
	MaxInFlight int64  `yaml:"max_in_flight"`
}

type StepConfig struct {
	URLTemplate  string        `yaml:"url_template"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

type DailyConfig struct {
	Enabled   bool   `yaml:"enabled"`
	ChannelID string `yaml:"channel_id"`
	Time      string `yaml:"time"`     // "HH:MM"
	Timezone  string `yaml:"timezone"` // IANA, например "Europe/London"
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default — конфигурация без файла.
func Default() Config {
	return Config{
		Bot: BotConfig{
			Prefix:      DefaultPrefix,
			Command:     DefaultCommand,
			MaxInFlight: 4,
		},
		Step: StepConfig{
			URLTemplate:  step.DefaultURLTemplate,
			ProbeTimeout: probe.DefaultTimeout,
		},
		Selector: selector.Config{
			LookupPapers: step.AllPapers,
			RandomPapers: step.DefaultRandomPapers,
			DailyPapers:  step.DefaultRandomPapers,
			Retries:      selector.DefaultRetries,
		},
		Daily: DailyConfig{
			Enabled:  true,
			Time:     DefaultDaily,
			Timezone: DefaultTimezone,
		},
		Store:   StoreConfig{Path: DefaultDBPath},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load читает .env (если есть), YAML поверх дефолтов (отсутствующий файл
// не ошибка) и переменные окружения.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if tok := strings.TrimSpace(os.Getenv(TokenEnv)); tok != "" {
		cfg.Discord.Token = tok
	}
	if ch := strings.TrimSpace(os.Getenv("STEPBOT_DAILY_CHANNEL")); ch != "" {
		cfg.Daily.ChannelID = ch
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := step.NewLocator(c.Step.URLTemplate); err != nil {
		return err
	}
	for name, p := range map[string]step.Papers{
		"lookup_papers": c.Selector.LookupPapers,
		"random_papers": c.Selector.RandomPapers,
		"daily_papers":  c.Selector.DailyPapers,
	} {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("selector.%s: %w", name, err)
		}
	}
	if c.Selector.Retries <= 0 {
		return fmt.Errorf("selector.retries must be positive, got %d", c.Selector.Retries)
	}
	if c.Bot.Prefix == "" || c.Bot.Command == "" {
		return fmt.Errorf("bot.prefix and bot.command must be set")
	}
	if _, _, err := c.Daily.Clock(); err != nil {
		return err
	}
	if _, err := c.Daily.Location(); err != nil {
		return err
	}
	return nil
}

// Clock разбирает Time ("HH:MM").
func (d DailyConfig) Clock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", d.Time)
	if err != nil {
		return 0, 0, fmt.Errorf("daily.time %q: want HH:MM", d.Time)
	}
	return t.Hour(), t.Minute(), nil
}

func (d DailyConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("daily.timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}
