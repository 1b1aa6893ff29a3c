package handlers

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/beach_trivia_bot/internal/models"
)

// AnswerCallbackPrefix marks quiz answer buttons. The rest of the data is the letter.
const AnswerCallbackPrefix = "ans:"

// AnswerKeyboard creates the A-D inline buttons under a quiz question.
func AnswerKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(models.Choices))
	for _, c := range models.Choices {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(c), AnswerCallbackPrefix+string(c)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// ParseAnswerCallback extracts the letter from answer button data.
func ParseAnswerCallback(data string) (models.Choice, bool) {
	if !strings.HasPrefix(data, AnswerCallbackPrefix) {
		return "", false
	}
	return models.ParseChoice(strings.TrimPrefix(data, AnswerCallbackPrefix))
}
