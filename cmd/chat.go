package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/RawsTourix/bot-farm/internal/config"
	"github.com/RawsTourix/bot-farm/internal/gateway"
)

var (
	chatGatewayURL string
	chatUserID     string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat session against a running gateway",
	Long: `Opens an interactive prompt that sends each line as a web-protocol
message, keeping one session id for the whole conversation. Type 'exit'
or press Ctrl+C to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		baseURL := chatGatewayURL
		if baseURL == "" {
			baseURL = cfg.Gateway
		}

		client := newGatewayClient(baseURL, cfg.Keys.Web)
		sessionID := uuid.NewString()
		fmt.Printf("Connected to %s (session %s). Type 'exit' to leave.\n\n", baseURL, sessionID)

		prompt := promptui.Prompt{Label: "you"}
		for {
			line, err := prompt.Run()
			if err != nil {
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					return nil
				}
				return fmt.Errorf("reading input: %w", err)
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}

			raw, err := client.post(map[string]any{
				"client_type": gateway.ClientWeb,
				"content":     line,
				"user_id":     chatUserID,
				"session_id":  sessionID,
			})
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}

			var reply gateway.WebReply
			if err := json.Unmarshal(raw, &reply); err != nil {
				fmt.Printf("error: decoding reply: %v\n", err)
				continue
			}

			if !reply.Success {
				fmt.Printf("error: %s\n", reply.Error)
				continue
			}
			fmt.Printf("\n%s\n\n", reply.Response.Content)
		}
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatGatewayURL, "gateway", "", "gateway base URL (default from config)")
	chatCmd.Flags().StringVar(&chatUserID, "user", "web-user", "user id sent with each message")
	rootCmd.AddCommand(chatCmd)
}
