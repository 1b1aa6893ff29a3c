package handlers

import (
	"context"
	stderrors "errors"

	"github.com/mroshb/beach_trivia_bot/internal/session"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

// StartBeachCase posts the next unsolved case in the invoking chat. The session posts the
// case itself and keeps running after this returns.
func (h *HandlerManager) StartBeachCase(ctx context.Context, inv Invocation, bot BotInterface) {
	if !h.allow(inv, bot) {
		return
	}

	s, err := h.Engine.StartCase(inv.ChatID)
	switch {
	case err == nil:
	case stderrors.Is(err, session.ErrAllCasesSolved):
		bot.SendMessage(inv.ChatID, MsgAllCasesSolved, nil)
		return
	case stderrors.Is(err, session.ErrCaseOpen):
		bot.SendMessage(inv.ChatID, MsgCaseAlreadyOpen, nil)
		return
	default:
		logger.Error("Failed to start case", "chat_id", inv.ChatID, "error", err)
		bot.SendMessage(inv.ChatID, MsgSomethingWrong, nil)
		return
	}

	logger.Info("Case opened", "session_id", s.ID, "chat_id", inv.ChatID, "user_id", inv.UserID)
	h.Engine.Launch(ctx, s)
}
