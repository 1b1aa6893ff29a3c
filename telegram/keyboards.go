package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Commands registered with Telegram.
const (
	CmdStart       = "start"
	CmdHelp        = "help"
	CmdBeachCase   = "beachcase"
	CmdQuiz        = "quiz"
	CmdLeaderboard = "leaderboard"
	CmdXP          = "xp"
	CmdRank        = "rank"
)

// Main menu buttons shown in private chats.
const (
	BtnCase = "🔍 Beach Case"
	BtnQuiz = "🩺 Quiz"
	BtnRank = "🏅 My Rank"
	BtnHelp = "❓ Help"
)

const (
	MsgWelcome = "🏖️ Welcome to <b>Beach Trivia</b>!\n\n" +
		"Solve beach emergencies, answer first-aid questions and climb from Beach First-Aid Trainee " +
		"to Legendary Surf Medic.\n\nAdd me to a group for cases and the leaderboard."
	MsgQuestionClosed = "This question is already closed."
	MsgAnswerRecorded = "Answer recorded: "
)

func isMenuButton(text string) bool {
	switch strings.TrimSpace(text) {
	case BtnCase, BtnQuiz, BtnRank, BtnHelp:
		return true
	}
	return false
}

// BotCommands lists the commands shown in the Telegram command menu.
func BotCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: CmdBeachCase, Description: "Post a beach emergency case for players to guess!"},
		{Command: CmdQuiz, Description: "Start your personal beach first-aid quiz"},
		{Command: CmdLeaderboard, Description: "Show the Beach Trivia XP leaderboard"},
		{Command: CmdXP, Description: "Show your XP and rank"},
		{Command: CmdHelp, Description: "How to play"},
	}
}

// MainMenuKeyboard creates the main menu keyboard
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnQuiz),
			tgbotapi.NewKeyboardButton(BtnCase),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnRank),
			tgbotapi.NewKeyboardButton(BtnHelp),
		),
	)
}
