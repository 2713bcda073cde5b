package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RawsTourix/bot-farm/internal/config"
	"github.com/RawsTourix/bot-farm/internal/gateway"
)

var (
	execGatewayURL string
	execUserID     string
)

var execCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "Execute one command against a running gateway",
	Long: `Sends a single CLI-protocol command to the gateway's unified
endpoint and prints the output. Built-in commands (help, status, stats,
send, history, clear) are answered by the gateway's cli adapter; anything
else is forwarded to the central processor.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		baseURL := execGatewayURL
		if baseURL == "" {
			baseURL = cfg.Gateway
		}

		client := newGatewayClient(baseURL, cfg.Keys.CLI)
		raw, err := client.post(map[string]any{
			"client_type": gateway.ClientCLI,
			"command":     args[0],
			"args":        args[1:],
			"user_id":     execUserID,
			"options":     map[string]any{},
		})
		if err != nil {
			return err
		}

		var reply gateway.CommandReply
		if err := json.Unmarshal(raw, &reply); err != nil {
			return fmt.Errorf("decoding reply: %w", err)
		}

		if !reply.Success {
			fmt.Fprintf(os.Stderr, "Error: %s\n", reply.Error)
			os.Exit(1)
		}
		fmt.Println(reply.Output)
		return nil
	},
}

func init() {
	execCmd.Flags().StringVar(&execGatewayURL, "gateway", "", "gateway base URL (default from config)")
	execCmd.Flags().StringVar(&execUserID, "user", "cli-user", "user id sent with the command")
	rootCmd.AddCommand(execCmd)
}
