package handlers

import (
	"context"

	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

// ShowRank replies with the caller's XP, rank and progress to the next tier.
func (h *HandlerManager) ShowRank(ctx context.Context, inv Invocation, bot BotInterface) {
	if !h.allow(inv, bot) {
		return
	}

	profile, err := h.XPSvc.Profile(ctx, inv.UserID)
	if err != nil {
		logger.Error("Failed to load profile", "user_id", inv.UserID, "error", err)
		bot.SendMessage(inv.ChatID, MsgSomethingWrong, nil)
		return
	}
	bot.SendMessage(inv.ChatID, RenderRank(profile, inv.DisplayName), nil)
}

func (h *HandlerManager) ShowHelp(inv Invocation, bot BotInterface) {
	bot.SendMessage(inv.ChatID, MsgHelp, nil)
}
