package services

import (
	"context"

	"github.com/mroshb/beach_trivia_bot/internal/leaderboard"
	"github.com/mroshb/beach_trivia_bot/internal/leveling"
	"github.com/mroshb/beach_trivia_bot/internal/repositories"
	"github.com/mroshb/beach_trivia_bot/pkg/errors"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

// Award is the outcome of crediting XP to one user.
type Award struct {
	UserID   string
	Amount   int64
	Total    int64
	Before   leveling.Tier
	After    leveling.Tier
	RankedUp bool
}

// Profile is a user's standing on the ladder.
type Profile struct {
	UserID   string
	XP       int64
	Rank     leveling.Tier
	Next     leveling.Tier
	HasNext  bool
	Progress string
}

// MemberResolver returns a display name for users still present in a chat.
type MemberResolver func(userID string) (displayName string, ok bool)

type XPService struct {
	repo   repositories.XPRepository
	ladder leveling.Ladder
}

func NewXPService(repo repositories.XPRepository, ladder leveling.Ladder) *XPService {
	if len(ladder) == 0 {
		ladder = leveling.BeachMedics
	}
	return &XPService{
		repo:   repo,
		ladder: ladder,
	}
}

func (s *XPService) Ladder() leveling.Ladder {
	return s.ladder
}

// Award credits amount to userID. If the store kept the new total but failed to
// persist it, the award is returned together with the error.
func (s *XPService) Award(ctx context.Context, userID string, amount int64) (*Award, error) {
	total, err := s.repo.AddXP(ctx, userID, amount)
	if err != nil && total == 0 {
		return nil, err
	}

	before := s.ladder.RankFor(total - amount)
	after := s.ladder.RankFor(total)
	award := &Award{
		UserID:   userID,
		Amount:   amount,
		Total:    total,
		Before:   before,
		After:    after,
		RankedUp: after.MinXP > before.MinXP,
	}

	if err != nil {
		logger.Error("Failed to persist XP award", "user_id", userID, "total", total, "error", err)
		return award, err
	}

	logger.Debug("XP awarded", "user_id", userID, "amount", amount, "total", total)
	return award, nil
}

func (s *XPService) Profile(ctx context.Context, userID string) (*Profile, error) {
	xp, err := s.repo.GetXP(ctx, userID)
	if err != nil {
		return nil, err
	}

	next, hasNext := s.ladder.Next(xp)
	return &Profile{
		UserID:   userID,
		XP:       xp,
		Rank:     s.ladder.RankFor(xp),
		Next:     next,
		HasNext:  hasNext,
		Progress: s.ladder.ProgressBar(xp),
	}, nil
}

// Leaderboard ranks the users resolve recognizes. Records are fed in store order, so
// equal XP keeps first-award order.
func (s *XPService) Leaderboard(ctx context.Context, resolve MemberResolver, size int) ([]leaderboard.Row, error) {
	if resolve == nil {
		return nil, errors.New(errors.ErrCodeValidation, "member resolver is required")
	}

	records, err := s.repo.ListXP(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]leaderboard.Entry, 0, len(records))
	for _, rec := range records {
		name, ok := resolve(rec.UserID)
		if !ok {
			continue
		}
		entries = append(entries, leaderboard.Entry{
			UserID:      rec.UserID,
			DisplayName: name,
			XP:          rec.XP,
		})
	}

	return leaderboard.Build(entries, size, s.ladder), nil
}
