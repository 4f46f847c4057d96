package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	LLM      LLM
	Admin    Admin
	Session  Session
}

type Server struct {
	Port string
	Env  string
}

type Database struct {
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

type LLM struct {
	Provider        string
	OpenAIApiKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	GeminiApiKey    string
	GeminiModel     string
	AnthropicApiKey string
	AnthropicModel  string
	Timeout         time.Duration
}

type Admin struct {
	Password string
}

type Session struct {
	Secret          string
	TimeLimit       time.Duration
	AccessKeyLength int
}

// IsProduction reports whether the server runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// DSN returns the postgres connection string, or "" when the sqlite fallback applies.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Host == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	return fromViper(v)
}

const maxAdminPasswordBytes = 72

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("SQLITE_PATH", "tutor_ia.db")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-latest")
	v.SetDefault("LLM_TIMEOUT", "60s")
	v.SetDefault("SESSION_TIME_LIMIT_MINUTES", 30)
	v.SetDefault("ACCESS_KEY_LENGTH", 16)

	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.Env = v.GetString("APP_ENV")

	config.Database.URL = v.GetString("DATABASE_URL")
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SQLitePath = v.GetString("SQLITE_PATH")

	config.LLM.Provider = v.GetString("LLM_PROVIDER")
	config.LLM.OpenAIApiKey = v.GetString("OPENAI_API_KEY")
	config.LLM.OpenAIModel = v.GetString("OPENAI_MODEL")
	config.LLM.OpenAIBaseURL = v.GetString("OPENAI_BASE_URL")
	config.LLM.GeminiApiKey = v.GetString("GEMINI_API_KEY")
	config.LLM.GeminiModel = v.GetString("GEMINI_MODEL")
	config.LLM.AnthropicApiKey = v.GetString("ANTHROPIC_API_KEY")
	config.LLM.AnthropicModel = v.GetString("ANTHROPIC_MODEL")
	config.LLM.Timeout = v.GetDuration("LLM_TIMEOUT")

	config.Admin.Password = v.GetString("ADMIN_PASSWORD")

	config.Session.Secret = v.GetString("SESSION_SECRET")
	config.Session.TimeLimit = time.Duration(v.GetInt("SESSION_TIME_LIMIT_MINUTES")) * time.Minute
	config.Session.AccessKeyLength = v.GetInt("ACCESS_KEY_LENGTH")

	if config.Session.AccessKeyLength < 8 {
		return nil, fmt.Errorf("ACCESS_KEY_LENGTH must be at least 8, got %d", config.Session.AccessKeyLength)
	}
	if config.Session.TimeLimit <= 0 {
		return nil, fmt.Errorf("SESSION_TIME_LIMIT_MINUTES must be positive")
	}
	// bcrypt only hashes the first 72 bytes and refuses longer input.
	if len(config.Admin.Password) > maxAdminPasswordBytes {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be at most %d bytes, got %d", maxAdminPasswordBytes, len(config.Admin.Password))
	}
	if config.LLM.Timeout <= 0 {
		config.LLM.Timeout = 60 * time.Second
	}

	if config.Session.Secret == "" {
		// Admin cookies will not survive a restart.
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
		config.Session.Secret = hex.EncodeToString(secret)
		log.Warn().Msg("SESSION_SECRET is not set, using a random per-process secret")
	}
	if config.Admin.Password == "" {
		log.Warn().Msg("ADMIN_PASSWORD is not set. Admin login is disabled.")
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("env", config.Server.Env).
		Bool("postgres", config.Database.DSN() != "").
		Str("llm_provider", config.LLM.Provider).
		Dur("session_time_limit", config.Session.TimeLimit).
		Msg("Config loaded")
	return &config, nil
}
