package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RawsTourix/bot-farm/internal/config"
	"github.com/RawsTourix/bot-farm/internal/telegram"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the Telegram long-poll bridge",
	Long: `Long-polls the Telegram Bot API and forwards each message to the
gateway's unified endpoint, replying in the chat with the gateway's
response. Run this next to 'botfarm serve'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Telegram.Token == "" {
			return fmt.Errorf("telegram token is not configured (telegram.token or BOTFARM_TELEGRAM_TOKEN)")
		}
		if cfg.Keys.Telegram == "" {
			return fmt.Errorf("telegram API key is not configured (keys.telegram)")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bridge := telegram.New(cfg.Telegram.Token, cfg.Gateway, cfg.Keys.Telegram)
		return bridge.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(telegramCmd)
}
