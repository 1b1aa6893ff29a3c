package session

import (
	"time"

	"github.com/mroshb/beach_trivia_bot/internal/models"
	"github.com/mroshb/beach_trivia_bot/internal/services"
	"github.com/mroshb/beach_trivia_bot/pkg/utils"
)

// policy is what differs between session kinds. The loop in Session.Run is shared.
type policy interface {
	Steps() int
	Timeout() time.Duration
	Prompt(step int) Notice
	Qualifies(step int) Filter
	Judge(step int, msg Message) bool
	Resolved(step int, msg Message, correct bool, award *services.Award) (Notice, bool)
	Expired(step int) Notice
	Completed(res Result) (Notice, bool)
}

// casePolicy posts one case to a chat. The first member to type the diagnosis wins it.
type casePolicy struct {
	sessionID string
	chatID    int64
	item      models.Case
	board     *CaseBoard
	timeout   time.Duration
}

func (p *casePolicy) Steps() int             { return 1 }
func (p *casePolicy) Timeout() time.Duration { return p.timeout }

func (p *casePolicy) Prompt(step int) Notice {
	return Notice{Kind: NoticeCaseOpened, SessionID: p.sessionID, Case: &p.item, Step: step, Steps: 1}
}

func (p *casePolicy) Qualifies(int) Filter {
	return func(m Message) bool {
		return m.ChatID == p.chatID &&
			utils.AnswersMatch(m.Text, p.item.Answer) &&
			!p.board.Solved(p.item.ID)
	}
}

func (p *casePolicy) Judge(_ int, m Message) bool {
	return p.board.Claim(p.item.ID, m.UserID)
}

func (p *casePolicy) Resolved(step int, m Message, correct bool, award *services.Award) (Notice, bool) {
	if !correct {
		return Notice{}, false
	}
	return Notice{
		Kind:        NoticeCaseSolved,
		SessionID:   p.sessionID,
		Case:        &p.item,
		Step:        step,
		Steps:       1,
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Correct:     true,
		Award:       award,
	}, true
}

func (p *casePolicy) Expired(step int) Notice {
	return Notice{Kind: NoticeCaseExpired, SessionID: p.sessionID, Case: &p.item, Step: step, Steps: 1}
}

func (p *casePolicy) Completed(Result) (Notice, bool) {
	return Notice{}, false
}

// quizPolicy walks one user through the question list. Wrong answers still advance.
type quizPolicy struct {
	sessionID string
	chatID    int64
	ownerID   string
	ownerName string
	questions []models.Question
	timeout   time.Duration
}

func (p *quizPolicy) Steps() int             { return len(p.questions) }
func (p *quizPolicy) Timeout() time.Duration { return p.timeout }

func (p *quizPolicy) Prompt(step int) Notice {
	return Notice{
		Kind:        NoticeQuizQuestion,
		SessionID:   p.sessionID,
		Question:    &p.questions[step],
		Step:        step,
		Steps:       len(p.questions),
		UserID:      p.ownerID,
		DisplayName: p.ownerName,
	}
}

func (p *quizPolicy) Qualifies(int) Filter {
	return func(m Message) bool {
		if m.ChatID != p.chatID || m.UserID != p.ownerID {
			return false
		}
		_, ok := models.ParseChoice(m.Text)
		return ok
	}
}

func (p *quizPolicy) Judge(step int, m Message) bool {
	choice, ok := models.ParseChoice(m.Text)
	return ok && choice == p.questions[step].Answer
}

func (p *quizPolicy) Resolved(step int, m Message, correct bool, award *services.Award) (Notice, bool) {
	choice, _ := models.ParseChoice(m.Text)
	return Notice{
		Kind:        NoticeQuizAnswered,
		SessionID:   p.sessionID,
		Question:    &p.questions[step],
		Step:        step,
		Steps:       len(p.questions),
		UserID:      p.ownerID,
		DisplayName: p.ownerName,
		Chosen:      choice,
		Correct:     correct,
		Award:       award,
	}, true
}

func (p *quizPolicy) Expired(step int) Notice {
	return Notice{
		Kind:        NoticeQuizExpired,
		SessionID:   p.sessionID,
		Question:    &p.questions[step],
		Step:        step,
		Steps:       len(p.questions),
		UserID:      p.ownerID,
		DisplayName: p.ownerName,
	}
}

func (p *quizPolicy) Completed(res Result) (Notice, bool) {
	return Notice{
		Kind:        NoticeQuizCompleted,
		SessionID:   p.sessionID,
		Steps:       len(p.questions),
		UserID:      p.ownerID,
		DisplayName: p.ownerName,
		Result:      &res,
	}, true
}
