package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultLexLocale   = "en_US"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultPersona     = "You are Dumbledore in Harry Potter. Answer like him"
	defaultHTTPTimeout = 10 * time.Second
	defaultLogTTL      = 60 * time.Minute
	defaultTGRate      = 30
)

// Getenv looks up one environment variable. os.Getenv satisfies it.
type Getenv func(key string) string

// Common holds settings shared by every function.
type Common struct {
	Environment string
	LogLevel    string
	HTTPTimeout time.Duration
}

// Telegram configures the outbound notifier. Exactly one of Token and
// TokenParam is needed; TokenParam names an SSM parameter.
type Telegram struct {
	Token         string
	TokenParam    string
	APIEndpoint   string
	RatePerSecond float64
}

type Ingest struct {
	Common
	QueueURL   string
	UsersTable string
	Telegram   Telegram
}

type Lex struct {
	BotID    string
	AliasID  string
	LocaleID string
}

type Dispatch struct {
	Common
	LogsTable string
	LogTTL    time.Duration
	Lex       Lex
	Telegram  Telegram
}

// OpenAI configures the answer provider. Exactly one of APIKey and
// APIKeyParam is needed.
type OpenAI struct {
	APIKey      string
	APIKeyParam string
	BaseURL     string
	Model       string
}

type Router struct {
	Common
	OpenAI  OpenAI
	Persona string
}

// LoadDotEnv loads a .env file from the working directory when one exists.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load .env: %w", err)
	}
	return nil
}

// reader collects missing-key errors so a misconfigured function reports
// every problem at once.
type reader struct {
	getenv Getenv
	errs   []error
}

func newReader(getenv Getenv) *reader {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &reader{getenv: getenv}
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) required(key string) string {
	v := r.str(key, "")
	if v == "" {
		r.errs = append(r.errs, fmt.Errorf("config: required environment variable %s is not set", key))
	}
	return v
}

func (r *reader) oneOf(a, b string) (string, string) {
	va, vb := r.str(a, ""), r.str(b, "")
	if va == "" && vb == "" {
		r.errs = append(r.errs, fmt.Errorf("config: one of %s or %s must be set", a, b))
	}
	return va, vb
}

func (r *reader) float(key string, def float64) float64 {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return f
}

// duration reads a positive integer count of unit.
func (r *reader) duration(key string, unit, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		r.errs = append(r.errs, fmt.Errorf("config: %s must be a positive integer, got %q", key, v))
		return def
	}
	return time.Duration(n) * unit
}

func (r *reader) err() error {
	return errors.Join(r.errs...)
}

func (r *reader) common() Common {
	return Common{
		Environment: r.str("ENVIRONMENT", ""),
		LogLevel:    r.str("LOG_LEVEL", "info"),
		HTTPTimeout: r.duration("HTTP_TIMEOUT_SECONDS", time.Second, defaultHTTPTimeout),
	}
}

func (r *reader) telegram() Telegram {
	token, param := r.oneOf("TELEGRAM_TOKEN", "TELEGRAM_TOKEN_PARAM")
	return Telegram{
		Token:         token,
		TokenParam:    param,
		APIEndpoint:   r.str("TELEGRAM_API_ENDPOINT", ""),
		RatePerSecond: r.float("TELEGRAM_RATE_PER_SEC", defaultTGRate),
	}
}

// LoadIngest reads the ingestion function settings.
func LoadIngest(getenv Getenv) (Ingest, error) {
	r := newReader(getenv)
	cfg := Ingest{
		Common:     r.common(),
		QueueURL:   r.required("SQS_QUEUE_URL"),
		UsersTable: r.required("USERS_TABLE_NAME"),
		Telegram:   r.telegram(),
	}
	return cfg, r.err()
}

// LoadDispatch reads the dispatch function settings.
func LoadDispatch(getenv Getenv) (Dispatch, error) {
	r := newReader(getenv)
	cfg := Dispatch{
		Common:    r.common(),
		LogsTable: r.required("LOGS_TABLE_NAME"),
		LogTTL:    r.duration("LOG_TTL_MINUTES", time.Minute, defaultLogTTL),
		Lex: Lex{
			BotID:    r.required("LEX_BOT_ID"),
			AliasID:  r.required("LEX_BOT_ALIAS_ID"),
			LocaleID: r.str("LEX_LOCALE_ID", defaultLexLocale),
		},
		Telegram: r.telegram(),
	}
	return cfg, r.err()
}

// LoadRouter reads the intent router settings.
func LoadRouter(getenv Getenv) (Router, error) {
	r := newReader(getenv)
	key, param := r.oneOf("OPENAI_API_KEY", "OPENAI_API_KEY_PARAM")
	cfg := Router{
		Common: r.common(),
		OpenAI: OpenAI{
			APIKey:      key,
			APIKeyParam: param,
			BaseURL:     r.str("OPENAI_BASE_URL", ""),
			Model:       r.str("OPENAI_MODEL", defaultOpenAIModel),
		},
		Persona: r.str("ANSWER_PERSONA", defaultPersona),
	}
	return cfg, r.err()
}
