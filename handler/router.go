package handler

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/unibot/service"
	"github.com/tieubaoca/unibot/types"
	"go.uber.org/zap"
)

type RouterConfig struct {
	PublicDir string
	Chat      *service.ChatService
	WebSocket *service.WebSocketService
	Logger    *zap.Logger
}

// NewRouter wires the chat API, the websocket endpoint and the static
// client page onto a gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(cfg.Logger))
	router.Use(NewCorsHandler().CorsMiddleware)

	chatHandler := NewChatHandler(cfg.Chat, cfg.Logger)
	router.POST("/chat", chatHandler.HandleChat)
	if cfg.WebSocket != nil {
		router.GET("/ws", gin.WrapF(cfg.WebSocket.HandleChat))
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if cfg.PublicDir != "" {
		index := filepath.Join(cfg.PublicDir, "index.html")
		router.GET("/", func(c *gin.Context) {
			c.File(index)
		})
		router.NoRoute(staticFiles(cfg.PublicDir))
	}

	return router
}

// staticFiles serves the client assets to GET and HEAD requests only.
func staticFiles(dir string) gin.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
			files.ServeHTTP(c.Writer, c.Request)
		default:
			c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Not found"})
		}
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
