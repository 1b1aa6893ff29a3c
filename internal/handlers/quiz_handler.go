package handlers

import (
	"context"
	stderrors "errors"

	"github.com/mroshb/beach_trivia_bot/internal/session"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

// StartQuiz starts the personal quiz of the invoking user. A second start while one is
// running is refused and leaves the running quiz alone.
func (h *HandlerManager) StartQuiz(ctx context.Context, inv Invocation, bot BotInterface) {
	if !h.allow(inv, bot) {
		return
	}

	s, err := h.Engine.StartQuiz(inv.ChatID, inv.UserID, inv.DisplayName)
	switch {
	case err == nil:
	case stderrors.Is(err, session.ErrSessionActive):
		bot.SendMessage(inv.ChatID, MsgQuizAlreadyOpen, nil)
		return
	case stderrors.Is(err, session.ErrNoQuestions):
		bot.SendMessage(inv.ChatID, MsgNoQuestions, nil)
		return
	default:
		logger.Error("Failed to start quiz", "chat_id", inv.ChatID, "user_id", inv.UserID, "error", err)
		bot.SendMessage(inv.ChatID, MsgSomethingWrong, nil)
		return
	}

	logger.Info("Quiz started", "session_id", s.ID, "chat_id", inv.ChatID, "user_id", inv.UserID)
	h.Engine.Launch(ctx, s)
}
