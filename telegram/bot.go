package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/beach_trivia_bot/internal/config"
	"github.com/mroshb/beach_trivia_bot/internal/handlers"
	"github.com/mroshb/beach_trivia_bot/internal/middleware"
	"github.com/mroshb/beach_trivia_bot/internal/questions"
	"github.com/mroshb/beach_trivia_bot/internal/security"
	"github.com/mroshb/beach_trivia_bot/internal/services"
	"github.com/mroshb/beach_trivia_bot/internal/session"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

type Bot struct {
	api        *tgbotapi.BotAPI
	config     *config.Config
	handlers   *handlers.HandlerManager
	dispatcher *session.Dispatcher

	// runCtx bounds sends made outside a session, such as command replies.
	runCtx context.Context

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
}

func InitBot(cfg *config.Config, xpSvc *services.XPService, bank *questions.Bank) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	bot := &Bot{
		api:         api,
		config:      cfg,
		dispatcher:  session.NewDispatcher(),
		runCtx:      context.Background(),
		workerChans: make([]chan tgbotapi.Update, cfg.WorkerCount),
	}

	engine := session.NewEngine(session.Config{
		CaseTimeout:  cfg.GetCaseTimeout(),
		QuizTimeout:  cfg.GetQuizTimeout(),
		XPPerCorrect: cfg.XPPerCorrect,
	}, bank, bot, xpSvc)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.GetRateLimitWindow())
	bot.handlers = handlers.NewHandlerManager(cfg, xpSvc, engine, limiter)

	return bot, nil
}

// Run serves updates until ctx is done, then waits for workers and running sessions.
func (b *Bot) Run(ctx context.Context) error {
	b.runCtx = ctx
	go b.handlers.Limiter.RunCleanup(ctx, 5*time.Minute)

	if err := b.registerCommands(); err != nil {
		logger.Warn("Failed to register bot commands", "error", err)
	}

	var workers sync.WaitGroup
	for i := range b.workerChans {
		b.workerChans[i] = make(chan tgbotapi.Update, 100)
		workers.Add(1)
		go func(ch chan tgbotapi.Update) {
			defer workers.Done()
			b.startWorker(ctx, ch)
		}(b.workerChans[i])
	}

	b.startUpdateListener(ctx)

	for _, ch := range b.workerChans {
		close(ch)
	}
	workers.Wait()
	b.handlers.Engine.Wait()
	logger.Info("Bot stopped")
	return nil
}

func (b *Bot) registerCommands() error {
	cmds := tgbotapi.NewSetMyCommands(BotCommands()...)
	_, err := b.api.Request(cmds)
	return err
}

func (b *Bot) startUpdateListener(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		if !b.consumeUpdates(ctx, updates) {
			b.Stop()
			return
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

// consumeUpdates fans updates out until the channel closes (true) or ctx is done (false).
func (b *Bot) consumeUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case update, ok := <-updates:
			if !ok {
				return true
			}
			// Answers are handed over in arrival order, ahead of any busy worker.
			if isSessionReply(update.Message) {
				b.dispatcher.Deliver(toSessionMessage(update.Message))
				continue
			}
			b.dispatchUpdate(ctx, update)
		}
	}
}

func (b *Bot) dispatchUpdate(ctx context.Context, update tgbotapi.Update) {
	var userID int64
	if update.Message != nil && update.Message.From != nil {
		userID = update.Message.From.ID
	} else if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		userID = update.CallbackQuery.From.ID
	}

	if userID == 0 {
		return
	}

	// Hashed dispatch to workers to ensure per-user ordered processing
	select {
	case b.workerChans[workerIndex(userID, len(b.workerChans))] <- update:
	case <-ctx.Done():
	}
}

// isSessionReply reports whether msg is plain chat text that only a running session can use.
func isSessionReply(msg *tgbotapi.Message) bool {
	if msg == nil || msg.From == nil || msg.From.IsBot || msg.Chat == nil {
		return false
	}
	if msg.IsCommand() {
		return false
	}
	return !(msg.Chat.IsPrivate() && isMenuButton(msg.Text))
}

func workerIndex(userID int64, workers int) int {
	idx := userID % int64(workers)
	if idx < 0 {
		idx = -idx
	}
	return int(idx)
}

func (b *Bot) startWorker(ctx context.Context, ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(ctx, update)
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.From.IsBot {
		return
	}

	logger.Debug("Received message",
		"user_id", message.From.ID,
		"chat_id", message.Chat.ID,
		"chat_type", message.Chat.Type,
	)

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Chat.IsPrivate() && b.handleButtonPress(ctx, message) {
		return
	}

	// Everything else may be an answer to a running session.
	if n := b.dispatcher.Deliver(toSessionMessage(message)); n > 0 {
		logger.Debug("Message answered a session", "user_id", message.From.ID, "sessions", n)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	inv := invocation(message)

	switch message.Command() {
	case CmdStart:
		if message.Chat.IsPrivate() {
			b.SendMessage(inv.ChatID, MsgWelcome, MainMenuKeyboard())
			return
		}
		b.handlers.ShowHelp(inv, b)
	case CmdHelp:
		b.handlers.ShowHelp(inv, b)
	case CmdBeachCase:
		b.handlers.StartBeachCase(ctx, inv, b)
	case CmdQuiz:
		b.handlers.StartQuiz(ctx, inv, b)
	case CmdLeaderboard:
		b.handlers.ShowLeaderboard(ctx, inv, b)
	case CmdXP, CmdRank:
		b.handlers.ShowRank(ctx, inv, b)
	}
}

func (b *Bot) handleButtonPress(ctx context.Context, message *tgbotapi.Message) bool {
	inv := invocation(message)

	switch strings.TrimSpace(message.Text) {
	case BtnCase:
		b.handlers.StartBeachCase(ctx, inv, b)
	case BtnQuiz:
		b.handlers.StartQuiz(ctx, inv, b)
	case BtnRank:
		b.handlers.ShowRank(ctx, inv, b)
	case BtnHelp:
		b.handlers.ShowHelp(inv, b)
	default:
		return false
	}
	return true
}

func invocation(message *tgbotapi.Message) handlers.Invocation {
	return handlers.Invocation{
		ChatID:      message.Chat.ID,
		ChatType:    message.Chat.Type,
		UserID:      strconv.FormatInt(message.From.ID, 10),
		DisplayName: userDisplayName(message.From),
	}
}

func toSessionMessage(message *tgbotapi.Message) session.Message {
	return session.Message{
		ChatID:      message.Chat.ID,
		MessageID:   message.MessageID,
		UserID:      strconv.FormatInt(message.From.ID, 10),
		DisplayName: userDisplayName(message.From),
		Text:        security.SanitizeString(message.Text),
	}
}

func userDisplayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" && u.UserName != "" {
		name = "@" + u.UserName
	}
	return name
}

// PostMessage renders a session notice and sends it.
func (b *Bot) PostMessage(ctx context.Context, chatID int64, notice session.Notice) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	text, keyboard := handlers.RenderNotice(notice)
	if text == "" {
		return 0, fmt.Errorf("no rendering for notice %s", notice.Kind)
	}

	msgID := b.sendMessage(ctx, chatID, text, keyboard)
	if msgID == 0 {
		return 0, fmt.Errorf("failed to send %s notice to chat %d", notice.Kind, chatID)
	}
	return msgID, nil
}

// AwaitMessage waits for the first incoming message filter accepts.
func (b *Bot) AwaitMessage(ctx context.Context, filter session.Filter, timeout time.Duration) (session.Message, error) {
	return b.dispatcher.Await(ctx, filter, timeout)
}

// ResolveMemberName looks the user up in chatID. Users who left or were removed are not members.
func (b *Bot) ResolveMemberName(chatID int64, userID string) (string, bool) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return "", false
	}

	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: id},
	})
	if err != nil {
		logger.Debug("Chat member lookup failed", "chat_id", chatID, "user_id", userID, "error", err)
		return "", false
	}
	if member.HasLeft() || member.WasKicked() {
		return "", false
	}

	name := userDisplayName(member.User)
	if name == "" {
		name = "Player " + userID
	}
	return name, true
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			if isTransient(err) && waitRetry(ctx, time.Duration(i+1)*time.Second) {
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

// waitRetry sleeps for d and reports false if ctx ends first.
func waitRetry(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func isTransient(err error) bool {
	s := err.Error()
	return strings.Contains(s, "connection reset") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "network is unreachable")
}

func (b *Bot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	return b.sendMessage(b.runCtx, chatID, text, keyboard)
}

func (b *Bot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	logger.Info("Bot stopped receiving updates")
}
