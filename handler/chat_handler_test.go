package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/unibot/service"
	"github.com/tieubaoca/unibot/types"
	"go.uber.org/zap"
)

type stubAI struct {
	reply string
	err   error
}

func (s stubAI) Complete(ctx context.Context, req service.CompletionRequest) (string, error) {
	return s.reply, s.err
}

func newTestRouter(t *testing.T, ai service.AIService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	publicDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "index.html"), []byte("<h1>chat</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "script.js"), []byte("console.log(1)"), 0o644))

	logger := zap.NewNop()
	chat := service.NewChatService(service.DefaultKnowledgeBase(), ai, logger)
	return NewRouter(RouterConfig{
		PublicDir: publicDir,
		Chat:      chat,
		WebSocket: service.NewWebSocketService(chat, logger),
		Logger:    logger,
	})
}

func postChat(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandleChatReply(t *testing.T) {
	router := newTestRouter(t, stubAI{reply: "Exams start in May."})

	rr := postChat(router, `{"message":"When are exams?"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Exams start in May.", resp.Reply)
}

func TestHandleChatFallbackWhenProviderUnreachable(t *testing.T) {
	router := newTestRouter(t, stubAI{err: errors.New("dial tcp: connection refused")})
	hostel := service.DefaultKnowledgeBase().Facts(service.CategoryHostel)

	rr := postChat(router, `{"message":"When does the hostel gate close?"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Here's what I found in our university database:\n\n"+strings.Join(hostel, "\n\n"), resp["reply"])
	assert.NotContains(t, resp, "error")
}

func TestHandleChatServiceError(t *testing.T) {
	router := newTestRouter(t, stubAI{err: errors.New("status 503: internal upstream detail")})

	rr := postChat(router, `{"message":"Hello!"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{
		"error": "I'm having trouble processing your request right now. Please try again later.",
	}, resp)
	assert.NotContains(t, rr.Body.String(), "upstream")
}

func TestHandleChatInvalidBody(t *testing.T) {
	router := newTestRouter(t, stubAI{reply: "unused"})

	rr := postChat(router, `{"message":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rr.Body.String())
}

func TestRouterServesClient(t *testing.T) {
	router := newTestRouter(t, stubAI{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>chat</h1>")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/script.js", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "console.log(1)", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestCorsPreflight(t *testing.T) {
	router := newTestRouter(t, stubAI{})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterStaticFilesOnlyForGetAndHead(t *testing.T) {
	router := newTestRouter(t, stubAI{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/script.js", strings.NewReader("x")))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotContains(t, rr.Body.String(), "console.log")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodHead, "/script.js", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}
