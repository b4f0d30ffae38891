package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nikitkaralius/evopoll/internal/polls"
)

// Bot is the part of *tgbotapi.BotAPI the sender needs.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sender delivers sendPoll bodies as native Telegram polls. The instance name is ignored,
// the bot token already identifies the account.
type Sender struct {
	bot    Bot
	logger *log.Logger
}

func NewSender(bot Bot, logger *log.Logger) *Sender {
	if logger == nil {
		logger = log.Default()
	}
	return &Sender{bot: bot, logger: logger}
}

func (s *Sender) SendPoll(ctx context.Context, instance string, body polls.RequestBody) (any, error) {
	chatID, err := parseChatID(body.Number)
	if err != nil {
		return nil, err
	}

	pollCfg := tgbotapi.NewPoll(chatID, body.Name, body.Values...)
	pollCfg.IsAnonymous = false
	pollCfg.AllowsMultipleAnswers = body.SelectableCount > 1
	if body.Quoted != nil {
		if replyTo, err := strconv.Atoi(body.Quoted.Key.ID); err == nil {
			pollCfg.ReplyToMessageID = replyTo
		} else {
			s.logger.Warn("quoted message id is not a telegram message id, sending without reply", "id", body.Quoted.Key.ID)
		}
	}

	if body.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(body.Delay) * time.Millisecond):
		}
	}

	sent, err := s.bot.Send(pollCfg)
	if err != nil {
		return nil, wrapError(err)
	}
	if sent.Poll == nil {
		return nil, errors.New("poll send returned no poll")
	}
	s.logger.Debug("telegram poll sent", "chat_id", chatID, "poll_id", sent.Poll.ID, "message_id", sent.MessageID)

	return map[string]any{
		"chatId":    chatID,
		"messageId": sent.MessageID,
		"pollId":    sent.Poll.ID,
	}, nil
}

// parseChatID accepts a numeric chat id, optionally followed by a WhatsApp-style "@server" suffix.
func parseChatID(number string) (int64, error) {
	id, _, _ := strings.Cut(strings.TrimSpace(number), "@")
	chatID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", number, err)
	}
	return chatID, nil
}

// APIError is a failed Bot API call.
type APIError struct {
	Status  int
	Message string
}

func wrapError(err error) error {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return &APIError{Status: tgErr.Code, Message: tgErr.Message}
	}
	return fmt.Errorf("telegram send poll: %w", err)
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Code() string {
	return fmt.Sprintf("TELEGRAM_%d", e.Status)
}
