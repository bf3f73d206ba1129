package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func envOf(vals map[string]string) Getenv {
	return func(key string) string { return vals[key] }
}

func TestLoadIngest(t *testing.T) {
	cfg, err := LoadIngest(envOf(map[string]string{
		"SQS_QUEUE_URL":    "https://sqs/q",
		"USERS_TABLE_NAME": "Users",
		"TELEGRAM_TOKEN":   "123:ABC",
	}))
	require.NoError(t, err)
	require.Equal(t, "https://sqs/q", cfg.QueueURL)
	require.Equal(t, "Users", cfg.UsersTable)
	require.Equal(t, "123:ABC", cfg.Telegram.Token)
	require.Equal(t, float64(30), cfg.Telegram.RatePerSecond)
	require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadIngest_ReportsEveryMissingKey(t *testing.T) {
	_, err := LoadIngest(envOf(nil))
	require.Error(t, err)
	require.Contains(t, err.Error(), "SQS_QUEUE_URL")
	require.Contains(t, err.Error(), "USERS_TABLE_NAME")
	require.Contains(t, err.Error(), "TELEGRAM_TOKEN or TELEGRAM_TOKEN_PARAM")
}

func TestLoadDispatch_Defaults(t *testing.T) {
	cfg, err := LoadDispatch(envOf(map[string]string{
		"LOGS_TABLE_NAME":      "Logs",
		"LEX_BOT_ID":           "BOT",
		"LEX_BOT_ALIAS_ID":     "ALIAS",
		"TELEGRAM_TOKEN_PARAM": "/relay/telegram",
	}))
	require.NoError(t, err)
	require.Equal(t, "en_US", cfg.Lex.LocaleID)
	require.Equal(t, 60*time.Minute, cfg.LogTTL)
	require.Equal(t, "/relay/telegram", cfg.Telegram.TokenParam)
	require.Empty(t, cfg.Telegram.Token)
}

func TestLoadDispatch_Overrides(t *testing.T) {
	cfg, err := LoadDispatch(envOf(map[string]string{
		"LOGS_TABLE_NAME":       "Logs",
		"LEX_BOT_ID":            "BOT",
		"LEX_BOT_ALIAS_ID":      "ALIAS",
		"LEX_LOCALE_ID":         "ja_JP",
		"LOG_TTL_MINUTES":       "15",
		"HTTP_TIMEOUT_SECONDS":  "3",
		"TELEGRAM_TOKEN":        "123:ABC",
		"TELEGRAM_RATE_PER_SEC": "0.5",
	}))
	require.NoError(t, err)
	require.Equal(t, "ja_JP", cfg.Lex.LocaleID)
	require.Equal(t, 15*time.Minute, cfg.LogTTL)
	require.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 0.5, cfg.Telegram.RatePerSecond)
}

func TestLoadDispatch_InvalidNumbers(t *testing.T) {
	_, err := LoadDispatch(envOf(map[string]string{
		"LOGS_TABLE_NAME":       "Logs",
		"LEX_BOT_ID":            "BOT",
		"LEX_BOT_ALIAS_ID":      "ALIAS",
		"TELEGRAM_TOKEN":        "123:ABC",
		"LOG_TTL_MINUTES":       "-1",
		"TELEGRAM_RATE_PER_SEC": "fast",
	}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "LOG_TTL_MINUTES")
	require.Contains(t, err.Error(), "TELEGRAM_RATE_PER_SEC")
}

func TestLoadRouter(t *testing.T) {
	cfg, err := LoadRouter(envOf(map[string]string{"OPENAI_API_KEY": "sk-test"}))
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	require.Equal(t, "You are Dumbledore in Harry Potter. Answer like him", cfg.Persona)

	_, err = LoadRouter(envOf(nil))
	require.ErrorContains(t, err, "OPENAI_API_KEY or OPENAI_API_KEY_PARAM")
}
