package cmd

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/unibot/client"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to a running chat server from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL, _ := cmd.Flags().GetString("server")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		_, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		session := client.NewSession(serverURL, &http.Client{Timeout: timeout}, logger)
		return runChat(cmd, session, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runChat(cmd *cobra.Command, session *client.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	shown := 0
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := session.Paste(scanner.Text())
		session.Send(cmd.Context(), line)

		transcript := session.State().Transcript
		for _, turn := range transcript[shown:] {
			if turn.Role == client.RoleBot {
				fmt.Fprintf(out, "Bot: %s\n", turn.Content)
			}
		}
		shown = len(transcript)
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("server", "s", "http://localhost:3000", "chat server base URL")
	chatCmd.Flags().Duration("timeout", 60*time.Second, "request timeout")
}
