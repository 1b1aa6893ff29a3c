package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/beach_trivia_bot/internal/handlers"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	logger.Debug("Callback query", "data", query.Data, "user_id", query.From.ID)

	if query.Message == nil {
		b.AnswerCallbackQuery(query.ID, "", false)
		return
	}

	if b.handleAnswerCallback(query) {
		return
	}

	b.AnswerCallbackQuery(query.ID, "", false)

	if strings.HasPrefix(query.Data, "btn:") {
		// Simulate a message so buttons share the typed-text path
		fakeMsg := &tgbotapi.Message{
			From: query.From,
			Chat: query.Message.Chat,
			Text: strings.TrimPrefix(query.Data, "btn:"),
		}
		b.handleMessage(ctx, fakeMsg)
	}
}

// handleAnswerCallback turns an A-D button press into a chat message for the dispatcher.
// Presses nobody is waiting for, such as a stranger tapping someone else's quiz, are refused.
func (b *Bot) handleAnswerCallback(query *tgbotapi.CallbackQuery) bool {
	choice, ok := handlers.ParseAnswerCallback(query.Data)
	if !ok {
		return false
	}

	fakeMsg := &tgbotapi.Message{
		MessageID: query.Message.MessageID,
		From:      query.From,
		Chat:      query.Message.Chat,
		Text:      string(choice),
	}

	answer := toSessionMessage(fakeMsg)
	answer.PromptID = query.Message.MessageID
	if b.dispatcher.Deliver(answer) == 0 {
		b.AnswerCallbackQuery(query.ID, MsgQuestionClosed, false)
		return true
	}
	b.AnswerCallbackQuery(query.ID, MsgAnswerRecorded+string(choice), false)

	// Remove inline keyboard to keep chat clean
	edit := tgbotapi.NewEditMessageReplyMarkup(query.Message.Chat.ID, query.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := b.api.Request(edit); err != nil {
		logger.Debug("Failed to clear answer buttons", "chat_id", query.Message.Chat.ID, "error", err)
	}
	return true
}
