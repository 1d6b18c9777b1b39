package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/unibot/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewChatServiceLogsKnowledgeBase(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := &config.Config{Provider: config.ProviderOpenAI, OpenAIAPIKey: "sk-test"}

	chat, closeFn, err := newChatService(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	require.NotNil(t, chat)
	defer closeFn()

	entries := logs.FilterMessage("university knowledge base loaded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]interface{}{
		"exam":       int64(3),
		"hostel":     int64(3),
		"curriculum": int64(2),
	}, entries[0].ContextMap())
}

func TestNewChatServiceGeminiNeedsKeys(t *testing.T) {
	cfg := &config.Config{Provider: config.ProviderGemini}

	_, _, err := newChatService(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "no API keys provided")
}
