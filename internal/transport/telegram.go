package transport

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Telegram реализует service.Transport поверх go-telegram/bot.
// Сообщения всегда отправляются от имени бота: текст через sendMessage,
// медиа через copyMessage (не forwardMessage — форвард раскрыл бы
// оригинального отправителя).
type Telegram struct {
	bot *bot.Bot
}

func NewTelegram(b *bot.Bot) *Telegram {
	return &Telegram{bot: b}
}

// SendText отправляет текстовое сообщение и возвращает его message_id
func (t *Telegram) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	msg, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}

	return msg.ID, nil
}

// CopyMessage копирует сообщение (включая любые медиа) в другой чат
// и возвращает message_id копии
func (t *Telegram) CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) (int, error) {
	copied, err := t.bot.CopyMessage(ctx, &bot.CopyMessageParams{
		ChatID:     toChatID,
		FromChatID: fromChatID,
		MessageID:  messageID,
	})
	if err != nil {
		return 0, fmt.Errorf("copy message: %w", err)
	}

	return copied.ID, nil
}
