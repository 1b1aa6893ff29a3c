package session

import (
	"context"
	"sync"
	"time"

	"github.com/mroshb/beach_trivia_bot/internal/questions"
	"github.com/mroshb/beach_trivia_bot/pkg/utils"
)

const (
	DefaultCaseTimeout  = 600 * time.Second
	DefaultQuizTimeout  = 60 * time.Second
	DefaultXPPerCorrect = 25
)

type Config struct {
	CaseTimeout  time.Duration
	QuizTimeout  time.Duration
	XPPerCorrect int64
}

func (c Config) withDefaults() Config {
	if c.CaseTimeout <= 0 {
		c.CaseTimeout = DefaultCaseTimeout
	}
	if c.QuizTimeout <= 0 {
		c.QuizTimeout = DefaultQuizTimeout
	}
	if c.XPPerCorrect <= 0 {
		c.XPPerCorrect = DefaultXPPerCorrect
	}
	return c
}

// Engine creates sessions over a fixed question bank and owns the shared state they
// coordinate through.
type Engine struct {
	cfg      Config
	bank     *questions.Bank
	gateway  Gateway
	awarder  Awarder
	registry *Registry
	board    *CaseBoard
	running  sync.WaitGroup
}

func NewEngine(cfg Config, bank *questions.Bank, gateway Gateway, awarder Awarder) *Engine {
	if bank == nil {
		bank = questions.Default()
	}
	return &Engine{
		cfg:      cfg.withDefaults(),
		bank:     bank,
		gateway:  gateway,
		awarder:  awarder,
		registry: NewRegistry(),
		board:    NewCaseBoard(),
	}
}

func (e *Engine) Registry() *Registry { return e.registry }
func (e *Engine) Board() *CaseBoard   { return e.board }

// StartCase opens the next unsolved case in chatID. Only one case is open at a time.
func (e *Engine) StartCase(chatID int64) (*Session, error) {
	item, err := e.board.open(e.bank.Cases)
	if err != nil {
		return nil, err
	}

	id := utils.NewSessionID(string(KindCase))
	s := e.newSession(id, KindCase, chatID, "", "", &casePolicy{
		sessionID: id,
		chatID:    chatID,
		item:      item,
		board:     e.board,
		timeout:   e.cfg.CaseTimeout,
	})
	s.release = func() { e.board.close(item.ID) }
	return s, nil
}

// StartQuiz reserves a quiz for userID in chatID. It fails with ErrSessionActive while
// the user already has one.
func (e *Engine) StartQuiz(chatID int64, userID, displayName string) (*Session, error) {
	if len(e.bank.Quiz) == 0 {
		return nil, ErrNoQuestions
	}

	id := utils.NewSessionID(string(KindQuiz))
	s := e.newSession(id, KindQuiz, chatID, userID, displayName, &quizPolicy{
		sessionID: id,
		chatID:    chatID,
		ownerID:   userID,
		ownerName: displayName,
		questions: e.bank.Quiz,
		timeout:   e.cfg.QuizTimeout,
	})
	if err := e.registry.reserve(userID, s); err != nil {
		return nil, err
	}
	s.release = func() { e.registry.release(userID, s) }
	return s, nil
}

// Launch runs s in its own goroutine. Wait blocks until every launched session is done.
func (e *Engine) Launch(ctx context.Context, s *Session) {
	e.running.Add(1)
	go func() {
		defer e.running.Done()
		s.Run(ctx)
	}()
}

func (e *Engine) Wait() {
	e.running.Wait()
}

func (e *Engine) newSession(id string, kind Kind, chatID int64, ownerID, ownerName string, p policy) *Session {
	return &Session{
		ID:          id,
		Kind:        kind,
		ChatID:      chatID,
		OwnerID:     ownerID,
		OwnerName:   ownerName,
		StartedAt:   time.Now(),
		policy:      p,
		gateway:     e.gateway,
		awarder:     e.awarder,
		xpPerAnswer: e.cfg.XPPerCorrect,
		done:        make(chan struct{}),
	}
}
