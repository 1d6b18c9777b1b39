package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

type GeminiService struct {
	apiKeys    []string
	clients    []*genai.Client
	currentKey int
	modelName  string
	logger     *zap.Logger
	mu         sync.Mutex
}

// NewGeminiService opens one client per key. When a call fails the service
// moves on to the next key for later requests; the failed request itself is
// not retried. Clients stay open until Close so a request in flight on one
// key is never cut off by another request rotating away from it.
func NewGeminiService(ctx context.Context, apiKeys []string, modelName string, logger *zap.Logger, opts ...option.ClientOption) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	s := &GeminiService{
		apiKeys:   apiKeys,
		modelName: modelName,
		logger:    logger,
	}
	for _, key := range apiKeys {
		clientOpts := append([]option.ClientOption{
			option.WithAPIKey(key),
			option.WithHTTPClient(&http.Client{
				Transport: &singleAttemptTransport{apiKey: key, base: http.DefaultTransport},
			}),
		}, opts...)
		client, err := genai.NewClient(ctx, clientOpts...)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		s.clients = append(s.clients, client)
	}
	return s, nil
}

func (s *GeminiService) Model() string {
	return s.modelName
}

// generativeModel returns a model bound to the current key together with
// that key's index.
func (s *GeminiService) generativeModel() (*genai.GenerativeModel, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients[s.currentKey].GenerativeModel(s.modelName), s.currentKey
}

// rotateAPIKey moves past the key at index failed. Concurrent failures on
// the same key advance it only once.
func (s *GeminiService) rotateAPIKey(failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) < 2 || s.currentKey != failed {
		return
	}
	s.currentKey = (failed + 1) % len(s.clients)
	s.logger.Info("rotated gemini api key", zap.Int("key_index", s.currentKey))
}

func (s *GeminiService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model, keyIndex := s.generativeModel()
	model.SetTemperature(req.Temperature)
	model.SetMaxOutputTokens(int32(req.MaxTokens))
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.System)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		s.rotateAPIKey(keyIndex)
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no response generated", ErrProvider)
	}

	var content strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content.WriteString(string(text))
		}
	}
	return content.String(), nil
}

func (s *GeminiService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, c := range s.clients {
		errs = append(errs, c.Close())
	}
	s.clients = nil
	return errors.Join(errs...)
}

// singleAttemptTransport authenticates with the API key and reports every
// non-2xx reply as a transport error. The generated client only retries
// *googleapi.Error values, so this keeps each call to a single request.
type singleAttemptTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *singleAttemptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("x-goog-api-key", t.apiKey)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return nil, fmt.Errorf("gemini: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
