package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/quickly-ask/models"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	OptionPolicy models.OptionPolicy
	LogLevel     string
	LogFormat    string
	RateLimit    float64
	RateBurst    int
}

// LoadEnvFile loads variables from a .env file without overriding ones already set.
// A missing file is fine; the process environment is used as is.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("no env file, using process environment", "path", path)
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var policy string

	fs := flag.NewFlagSet("quickly-ask", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&policy, "option-policy", "", "Foreign option selections: reject or filter")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (auto, text, json)")
	fs.Float64Var(&cfg.RateLimit, "rate", -1, "Requests per second per client IP (0 disables)")
	fs.IntVar(&cfg.RateBurst, "burst", 0, "Rate limiter burst size")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = orEnv(cfg.DatabaseType, "DATABASE_TYPE", "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	p, err := models.ParseOptionPolicy(orEnv(policy, "OPTION_SELECTION_POLICY", string(models.PolicyReject)))
	if err != nil {
		return Config{}, err
	}
	cfg.OptionPolicy = p

	cfg.LogLevel = orEnv(cfg.LogLevel, "LOG_LEVEL", "info")
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	cfg.LogFormat = orEnv(cfg.LogFormat, "LOG_FORMAT", "auto")
	switch cfg.LogFormat {
	case "auto", "text", "json":
	default:
		return Config{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	if cfg.RateLimit < 0 {
		cfg.RateLimit = 0
		if s := os.Getenv("RATE_LIMIT"); s != "" {
			rps, err := strconv.ParseFloat(s, 64)
			if err != nil || rps < 0 {
				return Config{}, errors.New("invalid RATE_LIMIT env variable")
			}
			cfg.RateLimit = rps
		}
	}
	if set["burst"] && cfg.RateBurst <= 0 {
		return Config{}, errors.New("burst must be positive")
	}
	if !set["burst"] {
		cfg.RateBurst = 20
		if s := os.Getenv("RATE_BURST"); s != "" {
			burst, err := strconv.Atoi(s)
			if err != nil || burst <= 0 {
				return Config{}, errors.New("invalid RATE_BURST env variable")
			}
			cfg.RateBurst = burst
		}
	}

	return cfg, nil
}

// ParseLevel maps a level name to a slog.Level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unsupported log level %q", name)
	}
	return level, nil
}

func orEnv(value, key, def string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(key); env != "" {
		return env
	}
	return def
}
