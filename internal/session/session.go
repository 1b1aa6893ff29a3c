// Package session runs question sessions: a prompt is posted, the session waits for a
// qualifying reply or a deadline, scores it and either advances or ends.
package session

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/mroshb/beach_trivia_bot/internal/services"
	"github.com/mroshb/beach_trivia_bot/pkg/errors"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

type Kind string

const (
	KindCase Kind = "case"
	KindQuiz Kind = "quiz"
)

type State int

const (
	StateIdle State = iota
	StateAwaiting
	StateCompleted
	StateExpired
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting"
	case StateCompleted:
		return "completed"
	case StateExpired:
		return "expired"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateExpired || s == StateCancelled
}

var (
	ErrSessionActive  = errors.New(errors.ErrCodeAlreadyExists, "a quiz is already running for this user")
	ErrCaseOpen       = errors.New(errors.ErrCodeConflict, "a case is already open")
	ErrAllCasesSolved = errors.New(errors.ErrCodeNotFound, "all cases have already been solved")
	ErrNoQuestions    = errors.New(errors.ErrCodeNotFound, "no quiz questions available")
	ErrTimedOut       = errors.New(errors.ErrCodeTimeout, "timed out waiting for an answer")
)

// Message is an incoming chat message as seen by a session.
type Message struct {
	ChatID      int64
	MessageID   int
	UserID      string
	DisplayName string
	Text        string
	// PromptID is the question message a button press belongs to. Typed replies leave it zero.
	PromptID int
}

// Filter decides whether a message answers the current step.
type Filter func(Message) bool

// Gateway is the chat side a session talks to.
type Gateway interface {
	PostMessage(ctx context.Context, chatID int64, notice Notice) (int, error)
	// AwaitMessage blocks for the first message accepted by filter. It returns
	// ErrTimedOut when timeout passes first, or the context error on cancellation.
	AwaitMessage(ctx context.Context, filter Filter, timeout time.Duration) (Message, error)
}

// Awarder credits XP for correct answers.
type Awarder interface {
	Award(ctx context.Context, userID string, amount int64) (*services.Award, error)
	Profile(ctx context.Context, userID string) (*services.Profile, error)
}

// Result summarizes a finished session.
type Result struct {
	State    State
	Steps    int
	Answered int
	Correct  int
	XPEarned int64
	// Profile is the owner's standing after a completed quiz.
	Profile *services.Profile
}

type Session struct {
	ID          string
	Kind        Kind
	ChatID      int64
	OwnerID     string
	OwnerName   string
	StartedAt   time.Time
	policy      policy
	gateway     Gateway
	awarder     Awarder
	xpPerAnswer int64
	release     func()

	mu     sync.Mutex
	step   int
	state  State
	result Result
	done   chan struct{}
}

func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once Run has returned and the session released its slot.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Run drives the session to a terminal state. It must be called once.
func (s *Session) Run(ctx context.Context) Result {
	defer s.finish()

	steps := s.policy.Steps()
	s.mu.Lock()
	s.state = StateAwaiting
	s.result.Steps = steps
	s.mu.Unlock()

	logger.Info("Session started", "session_id", s.ID, "kind", s.Kind, "chat_id", s.ChatID, "owner_id", s.OwnerID)

	for step := s.Step(); step < steps; step = s.Step() {
		promptID, err := s.gateway.PostMessage(ctx, s.ChatID, s.policy.Prompt(step))
		if err != nil {
			// Nobody can answer a question that never arrived.
			if ctx.Err() == nil {
				logger.Error("Failed to post prompt", "session_id", s.ID, "step", step, "error", err)
			}
			return s.end(StateCancelled)
		}

		msg, err := s.gateway.AwaitMessage(ctx, forPrompt(promptID, s.policy.Qualifies(step)), s.policy.Timeout())
		if err != nil {
			if stderrors.Is(err, ErrTimedOut) {
				res := s.end(StateExpired)
				s.post(ctx, s.policy.Expired(step))
				return res
			}
			if ctx.Err() == nil {
				logger.Error("Awaiting answer failed", "session_id", s.ID, "step", step, "error", err)
			}
			return s.end(StateCancelled)
		}

		correct := s.policy.Judge(step, msg)
		var award *services.Award
		if correct {
			award = s.award(ctx, msg.UserID)
		}

		s.mu.Lock()
		s.result.Answered++
		if correct {
			s.result.Correct++
			if award != nil {
				s.result.XPEarned += award.Amount
			}
		}
		s.step++
		s.mu.Unlock()

		if notice, ok := s.policy.Resolved(step, msg, correct, award); ok {
			s.post(ctx, notice)
		}
	}

	if s.OwnerID != "" && s.awarder != nil {
		profile, err := s.awarder.Profile(ctx, s.OwnerID)
		if err != nil {
			logger.Warn("Failed to load profile for summary", "session_id", s.ID, "error", err)
		}
		s.mu.Lock()
		s.result.Profile = profile
		s.mu.Unlock()
	}

	res := s.end(StateCompleted)
	if notice, ok := s.policy.Completed(res); ok {
		s.post(ctx, notice)
	}
	return res
}

// forPrompt drops button presses made under an earlier question's message.
func forPrompt(promptID int, filter Filter) Filter {
	return func(m Message) bool {
		if m.PromptID != 0 && m.PromptID != promptID {
			return false
		}
		return filter(m)
	}
}

func (s *Session) award(ctx context.Context, userID string) *services.Award {
	if s.awarder == nil || s.xpPerAnswer <= 0 {
		return nil
	}
	award, err := s.awarder.Award(ctx, userID, s.xpPerAnswer)
	if err != nil {
		// A failed save keeps the in-memory total; the session goes on either way.
		logger.Error("XP award failed", "session_id", s.ID, "user_id", userID, "error", err)
	}
	return award
}

func (s *Session) post(ctx context.Context, notice Notice) {
	if _, err := s.gateway.PostMessage(ctx, s.ChatID, notice); err != nil {
		logger.Error("Failed to post notice", "session_id", s.ID, "kind", notice.Kind, "error", err)
	}
}

func (s *Session) end(state State) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.result.State = state
	return s.result
}

func (s *Session) finish() {
	if s.release != nil {
		s.release()
	}
	res := s.Result()
	logger.Info("Session finished", "session_id", s.ID, "state", res.State.String(),
		"correct", res.Correct, "answered", res.Answered, "xp_earned", res.XPEarned)
	close(s.done)
}
