package session

import (
	"sync"

	"github.com/mroshb/beach_trivia_bot/internal/models"
)

// CaseBoard tracks solved cases and the one case currently open.
// It is process-wide and lives in memory only, so a restart reopens every case.
type CaseBoard struct {
	mu      sync.Mutex
	solved  map[int]string // case id -> winner user id
	openID  int
	hasOpen bool
}

func NewCaseBoard() *CaseBoard {
	return &CaseBoard{solved: make(map[int]string)}
}

// open picks the first unsolved case in list order and marks it open.
func (b *CaseBoard) open(cases []models.Case) (models.Case, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.hasOpen {
		return models.Case{}, ErrCaseOpen
	}
	for _, c := range cases {
		if _, done := b.solved[c.ID]; !done {
			b.openID = c.ID
			b.hasOpen = true
			return c, nil
		}
	}
	return models.Case{}, ErrAllCasesSolved
}

func (b *CaseBoard) close(caseID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasOpen && b.openID == caseID {
		b.hasOpen = false
		b.openID = 0
	}
}

// Claim records userID as the winner. Only the first claim on a case succeeds.
func (b *CaseBoard) Claim(caseID int, userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, done := b.solved[caseID]; done {
		return false
	}
	b.solved[caseID] = userID
	return true
}

func (b *CaseBoard) Solved(caseID int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, done := b.solved[caseID]
	return done
}

func (b *CaseBoard) Winner(caseID int) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	userID, ok := b.solved[caseID]
	return userID, ok
}

// OpenCase returns the id of the open case, if any.
func (b *CaseBoard) OpenCase() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.openID, b.hasOpen
}
