package handlers

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
)

func TestToServiceMessageTextSentAsText(t *testing.T) {
	msg := &models.Message{ID: 7, Chat: models.Chat{ID: 100}, Text: "привет"}

	out := toServiceMessage(msg)
	require.False(t, out.HasMedia)
	require.Equal(t, "привет", out.Text)
	require.Equal(t, int64(100), out.ChatID)
	require.Equal(t, 7, out.ID)
}

func TestToServiceMessagePhotoCopiedWithCaption(t *testing.T) {
	msg := &models.Message{
		ID:      7,
		Chat:    models.Chat{ID: 100},
		Photo:   []models.PhotoSize{{FileID: "f1"}},
		Caption: "смотрите",
	}

	out := toServiceMessage(msg)
	require.True(t, out.HasMedia)
	require.Equal(t, "смотрите", out.Caption)
}

func TestToServiceMessageNonTextContentCopied(t *testing.T) {
	// Контакт — нет ни текста, ни "классических" медиаполей,
	// но содержимое обязано дойти копированием, а не пустым заголовком
	msg := &models.Message{
		ID:      7,
		Chat:    models.Chat{ID: 100},
		Contact: &models.Contact{PhoneNumber: "+71234567890", FirstName: "Иван"},
	}

	out := toServiceMessage(msg)
	require.True(t, out.HasMedia)
	require.Empty(t, out.Text)
}
