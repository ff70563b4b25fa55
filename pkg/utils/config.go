package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Edit form policies for GET /comments/{id}
const (
	EditFormPublic = "public"
	EditFormOwner  = "owner"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	CSRF     CSRFConfig
	Comment  CommentConfig
}

type AppConfig struct {
	Name              string
	Port              string
	Debug             bool
	LogPath           string
	MigrationsOnStart bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// DSN returns a postgres:// URL, the form golang-migrate expects
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type SessionConfig struct {
	TTLHours     int
	CookieName   string
	CookieSecure bool
}

type CSRFConfig struct {
	AuthKey   string
	Secure    bool
	FieldName string
}

type CommentConfig struct {
	EditFormPolicy string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "movie-comments")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("MIGRATIONS_ON_START", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("SESSION_COOKIE_NAME", "session_token")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("CSRF_SECURE", false)
	v.SetDefault("CSRF_FIELD_NAME", "_csrf")
	v.SetDefault("COMMENT_EDIT_FORM_POLICY", EditFormPublic)

	// .env is optional, environment variables win
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:              v.GetString("APP_NAME"),
			Port:              v.GetString("PORT"),
			Debug:             v.GetBool("DEBUG"),
			LogPath:           v.GetString("LOG_PATH"),
			MigrationsOnStart: v.GetBool("MIGRATIONS_ON_START"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			TTLHours:     v.GetInt("SESSION_TTL_HOURS"),
			CookieName:   v.GetString("SESSION_COOKIE_NAME"),
			CookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
		},
		CSRF: CSRFConfig{
			AuthKey:   v.GetString("CSRF_AUTH_KEY"),
			Secure:    v.GetBool("CSRF_SECURE"),
			FieldName: v.GetString("CSRF_FIELD_NAME"),
		},
		Comment: CommentConfig{
			EditFormPolicy: strings.ToLower(v.GetString("COMMENT_EDIT_FORM_POLICY")),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that would otherwise fail later at request time
func (c *Config) Validate() error {
	if len(c.CSRF.AuthKey) != 32 {
		return fmt.Errorf("CSRF_AUTH_KEY must be exactly 32 bytes, got %d", len(c.CSRF.AuthKey))
	}

	switch c.Comment.EditFormPolicy {
	case EditFormPublic, EditFormOwner:
	default:
		return fmt.Errorf("COMMENT_EDIT_FORM_POLICY must be %q or %q, got %q",
			EditFormPublic, EditFormOwner, c.Comment.EditFormPolicy)
	}

	if c.Session.TTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}

	return nil
}
