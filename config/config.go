package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"flowstatus/nickname"
	"flowstatus/status"
)

type Config struct {
	Discord  DiscordConfig
	Database DatabaseConfig
	Status   StatusConfig
	Log      LogConfig
}

type DiscordConfig struct {
	Token              string
	InteractionTimeout time.Duration
}

type DatabaseConfig struct {
	URL              string
	MaxConns         int32
	ConnectTimeout   time.Duration
	IdleTimeout      time.Duration
	StatementTimeout time.Duration
}

type StatusConfig struct {
	TTL           time.Duration
	ClearPolicy   nickname.ClearPolicy
	SweepInterval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config using lookup for every variable.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	e := env{lookup: lookup}

	clearPolicy, err := nickname.ParseClearPolicy(e.str("NICKNAME_CLEAR_POLICY", string(nickname.ClearPolicyUsernameMatch)))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: NICKNAME_CLEAR_POLICY: %w", err))
	}

	cfg := &Config{
		Discord: DiscordConfig{
			Token:              e.str("DISCORD_TOKEN", ""),
			InteractionTimeout: e.duration("INTERACTION_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL:              buildDatabaseURL(&e),
			MaxConns:         e.int32Value("DB_MAX_CONNS", 5),
			ConnectTimeout:   e.duration("DB_CONNECT_TIMEOUT", 2*time.Second),
			IdleTimeout:      e.duration("DB_IDLE_TIMEOUT", 30*time.Second),
			StatementTimeout: e.duration("DB_STATEMENT_TIMEOUT", 3*time.Second),
		},
		Status: StatusConfig{
			TTL:           e.duration("STATUS_TTL", status.DefaultTTL),
			ClearPolicy:   clearPolicy,
			SweepInterval: e.duration("STATUS_SWEEP_INTERVAL", 15*time.Minute),
		},
		Log: LogConfig{
			Level:  e.str("LOG_LEVEL", "info"),
			Format: e.str("LOG_FORMAT", "console"),
		},
	}

	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings needed to run the bot.
func (c *Config) Validate() error {
	var errs []error
	if c.Discord.Token == "" {
		errs = append(errs, errors.New("config: DISCORD_TOKEN is required"))
	}
	if err := c.Database.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Status.TTL <= 0 {
		errs = append(errs, fmt.Errorf("config: STATUS_TTL must be positive, got %s", c.Status.TTL))
	}
	return errors.Join(errs...)
}

// Validate checks the settings needed to open a connection pool.
func (d DatabaseConfig) Validate() error {
	if d.URL == "" {
		return errors.New("config: DATABASE_URL or DB_HOST/DB_NAME is required")
	}
	if d.MaxConns < 1 {
		return fmt.Errorf("config: DB_MAX_CONNS must be at least 1, got %d", d.MaxConns)
	}
	return nil
}

// buildDatabaseURL prefers DATABASE_URL and otherwise assembles one from the
// discrete DB_* variables.
func buildDatabaseURL(e *env) string {
	if v := e.str("DATABASE_URL", ""); v != "" {
		return v
	}

	host := e.str("DB_HOST", "")
	name := e.str("DB_NAME", "")
	if host == "" || name == "" {
		return ""
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, e.str("DB_PORT", "5432")),
		Path:   "/" + name,
	}
	if user := e.str("DB_USER", ""); user != "" {
		if pw, ok := e.lookup("DB_PASSWORD"); ok {
			u.User = url.UserPassword(user, pw)
		} else {
			u.User = url.User(user)
		}
	}
	u.RawQuery = url.Values{"sslmode": {e.str("DB_SSLMODE", "prefer")}}.Encode()
	return u.String()
}

type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return d
}

func (e *env) int32Value(key string, def int32) int32 {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return int32(n)
}
