package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awslex "github.com/aws/aws-sdk-go-v2/service/lexruntimev2"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"chat-relay/handler"
	"chat-relay/internal/config"
	"chat-relay/internal/integrations/lex"
	"chat-relay/internal/integrations/paramstore"
	"chat-relay/internal/integrations/telegram"
	"chat-relay/internal/logging"
	"chat-relay/internal/repository"
	"chat-relay/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "err", err)
		os.Exit(1)
	}
	cfg, err := config.LoadDispatch(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logging.Init(cfg.Environment, cfg.LogLevel)

	// ---- AWS SDK config ----
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	logs, err := repository.NewSessionLogStore(awsdynamodb.NewFromConfig(awsCfg), cfg.LogsTable)
	if err != nil {
		slog.Error("failed to create session log store", "err", err)
		os.Exit(1)
	}
	nlu, err := lex.New(awslex.NewFromConfig(awsCfg), lex.Bot{
		ID:       cfg.Lex.BotID,
		AliasID:  cfg.Lex.AliasID,
		LocaleID: cfg.Lex.LocaleID,
	})
	if err != nil {
		slog.Error("failed to create lex client", "err", err)
		os.Exit(1)
	}

	token := cfg.Telegram.Token
	if token == "" {
		ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			slog.Error("failed to create SSM client", "err", err)
			os.Exit(1)
		}
		if token, err = ssmClient.GetToken(ctx, cfg.Telegram.TokenParam); err != nil {
			slog.Error("failed to read telegram token", "param", cfg.Telegram.TokenParam, "err", err)
			os.Exit(1)
		}
	}
	notifier, err := telegram.New(token,
		telegram.WithAPIEndpoint(cfg.Telegram.APIEndpoint),
		telegram.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		telegram.WithRateLimit(cfg.Telegram.RatePerSecond),
	)
	if err != nil {
		slog.Error("failed to create telegram client", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	svc, err := usecase.NewDispatchService(nlu, notifier, logs, cfg.LogTTL)
	if err != nil {
		slog.Error("failed to create dispatch service", "err", err)
		os.Exit(1)
	}
	h, err := handler.NewDispatchHandler(svc)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
