/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/unibot/handler"
	"github.com/tieubaoca/unibot/service"
	"go.uber.org/zap"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chat server",
	Long:  `Serves the chat API on POST /chat, the websocket endpoint on /ws and the browser client from the public directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		chatService, closeProvider, err := newChatService(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeProvider()

		gin.SetMode(gin.ReleaseMode)
		router := handler.NewRouter(handler.RouterConfig{
			PublicDir: cfg.PublicDir,
			Chat:      chatService,
			WebSocket: service.NewWebSocketService(chatService, logger),
			Logger:    logger,
		})

		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("university chatbot server running",
				zap.String("addr", "http://localhost:"+cfg.Port),
				zap.String("public_dir", cfg.PublicDir),
			)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("port", "p", "", "port to listen on (overrides PORT)")
}
