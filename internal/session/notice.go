package session

import (
	"github.com/mroshb/beach_trivia_bot/internal/models"
	"github.com/mroshb/beach_trivia_bot/internal/services"
)

type NoticeKind int

const (
	NoticeCaseOpened NoticeKind = iota + 1
	NoticeCaseSolved
	NoticeCaseExpired
	NoticeQuizQuestion
	NoticeQuizAnswered
	NoticeQuizExpired
	NoticeQuizCompleted
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeCaseOpened:
		return "case_opened"
	case NoticeCaseSolved:
		return "case_solved"
	case NoticeCaseExpired:
		return "case_expired"
	case NoticeQuizQuestion:
		return "quiz_question"
	case NoticeQuizAnswered:
		return "quiz_answered"
	case NoticeQuizExpired:
		return "quiz_expired"
	case NoticeQuizCompleted:
		return "quiz_completed"
	default:
		return "unknown"
	}
}

// Notice is what a session asks the gateway to show. Rendering is up to the gateway.
type Notice struct {
	Kind      NoticeKind
	SessionID string

	Case     *models.Case
	Question *models.Question
	Step     int
	Steps    int

	// UserID and DisplayName are the answering user, or the quiz owner.
	UserID      string
	DisplayName string
	Chosen      models.Choice
	Correct     bool
	Award       *services.Award

	Result *Result
}
