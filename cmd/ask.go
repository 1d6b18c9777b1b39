package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/unibot/service"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question without starting the server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		chatService, closeProvider, err := newChatService(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeProvider()

		reply, err := chatService.Chat(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			var svcErr *service.ServiceError
			if errors.As(err, &svcErr) {
				return errors.New(svcErr.SafeMessage)
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
