package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token      string
		TimeoutSec int `mapstructure:"timeout_sec"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Trivia struct {
		BaseURL      string        `mapstructure:"base_url"`
		Amount       int           `mapstructure:"amount"`
		Timeout      time.Duration `mapstructure:"timeout"`
		SwapAttempts int           `mapstructure:"swap_attempts"`
		SwapBackoff  time.Duration `mapstructure:"swap_backoff"`
		SwapTimeout  time.Duration `mapstructure:"swap_timeout"`
	} `mapstructure:"trivia"`
}

func Load(path string) (Config, error) {
	// .env необязателен: в проде переменные приходят из окружения
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("telegram.timeout_sec", 60)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("trivia.base_url", "https://opentdb.com/")
	v.SetDefault("trivia.amount", 10)
	v.SetDefault("trivia.timeout", 10*time.Second)
	v.SetDefault("trivia.swap_attempts", 5)
	// Open Trivia DB отвечает response_code 5 чаще одного запроса в 5 секунд
	v.SetDefault("trivia.swap_backoff", 5*time.Second)
	v.SetDefault("trivia.swap_timeout", 30*time.Second)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// Location часовой пояс приложения; UTC, если не задан или не распознан.
func (c Config) Location() *time.Location {
	if c.App.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
