package cmd

import (
	"context"
	"fmt"

	"github.com/tieubaoca/unibot/config"
	"github.com/tieubaoca/unibot/service"
	"go.uber.org/zap"
)

// newChatService builds the orchestrator for the configured provider. The
// returned close function releases the provider client.
func newChatService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service.ChatService, func(), error) {
	kb := service.DefaultKnowledgeBase()
	sizes := make([]zap.Field, 0, len(kb.Categories()))
	for _, name := range kb.Categories() {
		sizes = append(sizes, zap.Int(name, len(kb.Facts(name))))
	}
	logger.Info("university knowledge base loaded", sizes...)

	switch cfg.Provider {
	case config.ProviderGemini:
		gemini, err := service.NewGeminiService(ctx, cfg.GeminiAPIKeys(), cfg.Model, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init gemini: %w", err)
		}
		logger.Info("using gemini provider", zap.String("model", gemini.Model()))
		closeFn := func() {
			if err := gemini.Close(); err != nil {
				logger.Warn("close gemini client", zap.Error(err))
			}
		}
		return service.NewChatService(kb, gemini, logger), closeFn, nil
	default:
		if cfg.OpenAIAPIKey == "" {
			logger.Warn("OPENAI_API_KEY is not set, replies will come from the knowledge base only")
		}
		openAI := service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model)
		logger.Info("using openai provider", zap.String("model", openAI.Model()))
		return service.NewChatService(kb, openAI, logger), func() {}, nil
	}
}
