// Package telegram bridges the Telegram Bot API to the gateway: updates
// received over long polling are normalized into the canonical envelope,
// posted to the gateway's unified endpoint, and the response text is sent
// back to the chat.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/RawsTourix/bot-farm/internal/gateway"
)

// Bridge long-polls Telegram and forwards messages to the gateway.
type Bridge struct {
	token      string
	gatewayURL string
	apiKey     string
	client     *http.Client
	bot        *tgbotapi.BotAPI
}

// New creates a bridge. gatewayURL is the gateway base URL; apiKey is the
// telegram surface's X-API-Key value.
func New(token, gatewayURL, apiKey string) *Bridge {
	return &Bridge{
		token:      token,
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Run starts the long-poll loop and blocks until the context is done.
func (b *Bridge) Run(ctx context.Context) error {
	bot, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("creating Telegram bot: %w", err)
	}
	b.bot = bot

	log.Printf("telegram bridge authorized as @%s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60 // long polling timeout

	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			log.Printf("telegram bridge stopped")
			return nil
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage forwards one Telegram message and replies with the
// gateway's response text.
func (b *Bridge) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	payload := buildPayload(msg)

	text, err := b.postToGateway(ctx, payload)
	if err != nil {
		log.Printf("telegram bridge: forwarding message: %v", err)
		text = "Failed to reach the gateway, please try again later."
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID
	if _, err := b.bot.Send(reply); err != nil {
		log.Printf("telegram bridge: sending reply: %v", err)
	}
}

// buildPayload normalizes a Telegram message into the canonical envelope
// the gateway's telegram adapter consumes.
func buildPayload(msg *tgbotapi.Message) *gateway.Message {
	msgType := gateway.MessageText
	if msg.IsCommand() {
		msgType = gateway.MessageCommand
	}

	var userID, userName string
	if msg.From != nil {
		userID = strconv.FormatInt(msg.From.ID, 10)
		userName = msg.From.FirstName
		if msg.From.LastName != "" {
			userName += " " + msg.From.LastName
		}
	}

	return &gateway.Message{
		ID:          uuid.NewString(),
		ClientType:  gateway.ClientTelegram,
		MessageType: msgType,
		Content:     msg.Text,
		UserID:      userID,
		UserName:    userName,
		Timestamp:   time.Now(),
		Metadata: map[string]any{
			"chat_id":    msg.Chat.ID,
			"message_id": msg.MessageID,
		},
	}
}

// gatewayReply is the unified endpoint's response envelope. For the
// telegram surface the response is the plain reply text.
type gatewayReply struct {
	Status   string `json:"status"`
	Response string `json:"response"`
	Error    string `json:"error"`
}

// postToGateway sends the envelope to the unified /message endpoint.
func (b *Bridge) postToGateway(ctx context.Context, payload *gateway.Message) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.gatewayURL+"/message", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting to gateway: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned %d: %s", resp.StatusCode, data)
	}

	var reply gatewayReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return "", fmt.Errorf("decoding gateway response: %w", err)
	}
	return reply.Response, nil
}
