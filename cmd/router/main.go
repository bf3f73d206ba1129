package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"chat-relay/handler"
	"chat-relay/internal/config"
	"chat-relay/internal/integrations/openai"
	"chat-relay/internal/integrations/paramstore"
	"chat-relay/internal/logging"
	"chat-relay/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "err", err)
		os.Exit(1)
	}
	cfg, err := config.LoadRouter(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logging.Init(cfg.Environment, cfg.LogLevel)

	// ---- Clients ----
	opts := []openai.Option{
		openai.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	if cfg.OpenAI.APIKey != "" {
		opts = append(opts, openai.WithAPIKey(cfg.OpenAI.APIKey))
	} else {
		// ---- AWS SDK config ----
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			slog.Error("failed to load AWS config", "err", err)
			os.Exit(1)
		}
		ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			slog.Error("failed to create SSM client", "err", err)
			os.Exit(1)
		}
		opts = append(opts, openai.WithParamStore(ssmClient, cfg.OpenAI.APIKeyParam))
	}
	answers, err := openai.NewClient(opts...)
	if err != nil {
		slog.Error("failed to create OpenAI client", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	router, err := usecase.NewIntentRouter(answers, cfg.OpenAI.Model, cfg.Persona)
	if err != nil {
		slog.Error("failed to create intent router", "err", err)
		os.Exit(1)
	}
	h, err := handler.NewRouterHandler(router)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
