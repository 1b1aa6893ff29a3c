package handlers

import (
	"github.com/mroshb/beach_trivia_bot/internal/config"
	"github.com/mroshb/beach_trivia_bot/internal/middleware"
	"github.com/mroshb/beach_trivia_bot/internal/services"
	"github.com/mroshb/beach_trivia_bot/internal/session"
)

// BotInterface is what command handlers need from the chat client.
type BotInterface interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
	// ResolveMemberName returns the display name of a user still in the chat.
	ResolveMemberName(chatID int64, userID string) (string, bool)
}

// Chat types as reported by Telegram.
const (
	ChatPrivate    = "private"
	ChatGroup      = "group"
	ChatSupergroup = "supergroup"
	ChatChannel    = "channel"
)

// Invocation is one command call.
type Invocation struct {
	ChatID      int64
	ChatType    string
	UserID      string
	DisplayName string
}

// InGroup reports whether the command came from a group chat.
func (i Invocation) InGroup() bool {
	return i.ChatType == ChatGroup || i.ChatType == ChatSupergroup
}

type HandlerManager struct {
	Config  *config.Config
	XPSvc   *services.XPService
	Engine  *session.Engine
	Limiter *middleware.RateLimiter
}

func NewHandlerManager(
	cfg *config.Config,
	xpSvc *services.XPService,
	engine *session.Engine,
	limiter *middleware.RateLimiter,
) *HandlerManager {
	return &HandlerManager{
		Config:  cfg,
		XPSvc:   xpSvc,
		Engine:  engine,
		Limiter: limiter,
	}
}

// allow applies the per-user command limit and tells the user when it trips.
func (h *HandlerManager) allow(inv Invocation, bot BotInterface) bool {
	if h.Limiter == nil || h.Limiter.Allow(inv.UserID) {
		return true
	}
	bot.SendMessage(inv.ChatID, MsgRateLimited, nil)
	return false
}

func (h *HandlerManager) leaderboardSize() int {
	if h.Config != nil && h.Config.LeaderboardSize > 0 {
		return h.Config.LeaderboardSize
	}
	return 0
}
