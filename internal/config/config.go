package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/internal/usecases/calculating"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Funnel    Funnel    `mapstructure:",squash"`
	State     State     `mapstructure:",squash"`
	RateLimit RateLimit `mapstructure:",squash"`
	Cleanup   Cleanup   `mapstructure:",squash"`
}

type App struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Funnel struct {
	CTABaseURL         string  `mapstructure:"cta_base_url"`
	ValidationMode     string  `mapstructure:"validation_mode"`
	BenchmarkMode      string  `mapstructure:"benchmark_mode"`
	BenchmarksFile     string  `mapstructure:"benchmarks_file"`
	DefaultImprovement float64 `mapstructure:"default_improvement"`
}

type State struct {
	StorageKey   string        `mapstructure:"storage_key"`
	CookieMaxAge time.Duration `mapstructure:"cookie_max_age"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	File         string        `mapstructure:"state_file"`
}

type RateLimit struct {
	PerSecond float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"rate_burst"`
}

// Cleanup agenda a remoção dos limitadores de IP ociosos
type Cleanup struct {
	Enabled      bool          `mapstructure:"limiter_cleanup_enabled"`
	CronSchedule string        `mapstructure:"limiter_cleanup_cron"`
	IdleTTL      time.Duration `mapstructure:"limiter_idle_ttl"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "localhost")
	v.SetDefault("PORT", 8000)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	v.SetDefault("CTA_BASE_URL", "https://calendly.com/convbench/diagnostic")
	v.SetDefault("VALIDATION_MODE", string(calculating.ModeLenient))
	v.SetDefault("BENCHMARK_MODE", string(domain.BenchmarkModeDelta))
	v.SetDefault("BENCHMARKS_FILE", "") // vazio usa o catálogo embutido
	v.SetDefault("DEFAULT_IMPROVEMENT", 10)

	v.SetDefault("STORAGE_KEY", "convbench@v1")
	v.SetDefault("COOKIE_MAX_AGE", "8760h") // 1 ano
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("STATE_FILE", "")

	v.SetDefault("RATE_LIMIT", 5) // requisições por segundo por IP
	v.SetDefault("RATE_BURST", 20)

	v.SetDefault("LIMITER_CLEANUP_ENABLED", true)
	v.SetDefault("LIMITER_CLEANUP_CRON", "*/10 * * * *")
	v.SetDefault("LIMITER_IDLE_TTL", "30m")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	v := viper.New()
	SetDefaults(v)

	v.SetConfigType("env")
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	config := &Config{}

	err := v.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}

	for i, origin := range config.Server.AllowedOrigins {
		config.Server.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if _, err := calculating.ParseValidationMode(c.Funnel.ValidationMode); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}

	switch domain.BenchmarkMode(strings.ToLower(c.Funnel.BenchmarkMode)) {
	case domain.BenchmarkModeDelta, domain.BenchmarkModeRatio:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown benchmark mode %q", c.Funnel.BenchmarkMode)
	}

	if c.Funnel.DefaultImprovement < 0 || c.Funnel.DefaultImprovement > 100 {
		return errors.Wrapf(ErrInvalidConfig, "default improvement %v outside 0-100", c.Funnel.DefaultImprovement)
	}

	if c.State.StorageKey == "" {
		return errors.Wrap(ErrInvalidConfig, "empty storage key")
	}

	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return errors.Wrap(ErrInvalidConfig, "rate limit and burst must be positive")
	}

	if c.Cleanup.Enabled && (c.Cleanup.CronSchedule == "" || c.Cleanup.IdleTTL <= 0) {
		return errors.Wrap(ErrInvalidConfig, "limiter cleanup needs a cron schedule and a positive idle ttl")
	}

	return nil
}

// ValidationMode devolve o modo já normalizado
func (c *Config) ValidationMode() calculating.ValidationMode {
	mode, _ := calculating.ParseValidationMode(c.Funnel.ValidationMode)
	return mode
}

// BenchmarkMode devolve o modo de comparação já normalizado
func (c *Config) BenchmarkMode() domain.BenchmarkMode {
	return domain.BenchmarkMode(strings.ToLower(c.Funnel.BenchmarkMode))
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("Arquivo .env carregado de: ", location)
			return
		}
	}
}
