package handlers

import (
	"context"

	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

// ShowLeaderboard ranks the members of the invoking group. Users who left the group are skipped.
func (h *HandlerManager) ShowLeaderboard(ctx context.Context, inv Invocation, bot BotInterface) {
	if !inv.InGroup() {
		bot.SendMessage(inv.ChatID, MsgGroupOnly, nil)
		return
	}
	if !h.allow(inv, bot) {
		return
	}

	resolve := func(userID string) (string, bool) {
		return bot.ResolveMemberName(inv.ChatID, userID)
	}
	rows, err := h.XPSvc.Leaderboard(ctx, resolve, h.leaderboardSize())
	if err != nil {
		logger.Error("Failed to build leaderboard", "chat_id", inv.ChatID, "error", err)
		bot.SendMessage(inv.ChatID, MsgSomethingWrong, nil)
		return
	}
	if len(rows) == 0 {
		bot.SendMessage(inv.ChatID, MsgNoXPData, nil)
		return
	}

	bot.SendMessage(inv.ChatID, RenderLeaderboard(rows), nil)
}
