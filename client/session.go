package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/tieubaoca/unibot/types"
	"go.uber.org/zap"
)

// Session drives a conversation against a chat server. Only one request can
// be in flight at a time; Send calls made while sending are dropped.
type Session struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger

	mu    sync.Mutex
	state State
}

func NewSession(baseURL string, httpClient *http.Client, logger *zap.Logger) *Session {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Session{
		endpoint: strings.TrimRight(baseURL, "/") + "/chat",
		http:     httpClient,
		logger:   logger,
		state:    NewState(),
	}
}

// State returns a snapshot of the conversation.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state
	snapshot.Transcript = append([]ChatTurn(nil), s.state.Transcript...)
	return snapshot
}

// Paste applies the input length limit to pasted text and returns what the
// input control should now hold.
func (s *Session) Paste(input string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var clamped string
	s.state, clamped = s.state.ClampInput(input)
	return clamped
}

// Send submits one turn and blocks until the reply is in the transcript.
// It reports false when the input was refused and no request was made.
func (s *Session) Send(ctx context.Context, input string) bool {
	s.mu.Lock()
	next, message, ok := s.state.Submit(input)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.state = next
	s.mu.Unlock()

	outcome := TransportError()
	defer func() {
		s.mu.Lock()
		s.state = s.state.Resolve(outcome)
		s.mu.Unlock()
	}()

	var err error
	outcome, err = s.post(ctx, message)
	if err != nil {
		s.logger.Warn("chat request failed", zap.Error(err))
	}
	return true
}

func (s *Session) post(ctx context.Context, message string) (Outcome, error) {
	body, err := json.Marshal(types.ChatRequest{Message: message})
	if err != nil {
		return TransportError(), err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return TransportError(), err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return TransportError(), err
	}
	defer resp.Body.Close()

	return DecodeOutcome(resp.StatusCode, resp.Body)
}

// DecodeOutcome turns a /chat response into an Outcome. Any non-2xx status
// is a transport error whatever the body says.
func DecodeOutcome(status int, body io.Reader) (Outcome, error) {
	if status < 200 || status > 299 {
		return TransportError(), fmt.Errorf("HTTP error! status: %d", status)
	}

	var data struct {
		Reply *string `json:"reply"`
		Error *string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return TransportError(), fmt.Errorf("decode chat response: %w", err)
	}
	switch {
	case data.Reply != nil:
		return Reply(*data.Reply), nil
	case data.Error != nil:
		return Failure(*data.Error), nil
	default:
		return TransportError(), fmt.Errorf("chat response has neither reply nor error")
	}
}
