package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	BaseSystemInstruction = "You are a helpful university chatbot assistant. Answer questions based on the university information provided."
	FallbackPreamble      = "Here's what I found in our university database:"
	ServiceErrorMessage   = "I'm having trouble processing your request right now. Please try again later."
)

type ReplySource string

const (
	SourceModel         ReplySource = "model"
	SourceKnowledgeBase ReplySource = "knowledge_base"
)

// Reply is what the orchestrator hands back on every successful path. Source
// is kept for logging; the wire format does not expose it.
type Reply struct {
	Text   string
	Source ReplySource
}

// ServiceError is returned when the provider failed and the knowledge base
// had nothing to offer. SafeMessage is the only text meant for the client.
type ServiceError struct {
	SafeMessage string
	Cause       error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.SafeMessage
	}
	return e.SafeMessage + ": " + e.Cause.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

type ChatService struct {
	kb     *KnowledgeBase
	ai     AIService
	logger *zap.Logger
}

func NewChatService(kb *KnowledgeBase, ai AIService, logger *zap.Logger) *ChatService {
	return &ChatService{
		kb:     kb,
		ai:     ai,
		logger: logger,
	}
}

// BuildSystemInstruction appends the matched facts, one per line, to the
// base instruction.
func BuildSystemInstruction(facts []string) string {
	if len(facts) == 0 {
		return BaseSystemInstruction
	}
	return BaseSystemInstruction + "\n\nRelevant university information:\n" + strings.Join(facts, "\n")
}

// FallbackReply renders matched facts as the knowledge-base answer used when
// the provider is unavailable.
func FallbackReply(facts []string) string {
	return FallbackPreamble + "\n\n" + strings.Join(facts, "\n\n")
}

// Chat answers a single message. The provider is tried exactly once; on
// failure the matched facts are returned directly, and if there are none a
// *ServiceError is returned.
func (s *ChatService) Chat(ctx context.Context, message string) (Reply, error) {
	facts := s.kb.FindRelevant(message)

	text, err := s.ai.Complete(ctx, CompletionRequest{
		System:      BuildSystemInstruction(facts),
		User:        message,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	})
	if err == nil {
		s.logger.Debug("chat answered by provider", zap.Int("facts", len(facts)))
		return Reply{Text: text, Source: SourceModel}, nil
	}

	fallback := s.kb.FindRelevant(message)
	if len(fallback) > 0 {
		s.logger.Warn("provider failed, answering from knowledge base",
			zap.Error(err),
			zap.Int("facts", len(fallback)),
		)
		return Reply{Text: FallbackReply(fallback), Source: SourceKnowledgeBase}, nil
	}

	s.logger.Error("provider failed and knowledge base has no match", zap.Error(err))
	return Reply{}, &ServiceError{SafeMessage: ServiceErrorMessage, Cause: err}
}
