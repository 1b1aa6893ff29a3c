package repositories

import (
	"context"
	"strings"

	"github.com/mroshb/beach_trivia_bot/internal/models"
	"github.com/mroshb/beach_trivia_bot/pkg/errors"
)

// XPRepository is the persistent user -> XP mapping.
// Implementations must be safe for concurrent use.
type XPRepository interface {
	// GetXP returns the stored XP, or 0 for an unknown user.
	GetXP(ctx context.Context, userID string) (int64, error)
	// AddXP adds a positive amount and returns the new total.
	AddXP(ctx context.Context, userID string, amount int64) (int64, error)
	// ListXP returns every record in first-award order.
	ListXP(ctx context.Context) ([]models.UserXP, error)
}

func validateAward(userID string, amount int64) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New(errors.ErrCodeValidation, "user id is required")
	}
	if amount <= 0 {
		return errors.New(errors.ErrCodeValidation, "xp amount must be positive")
	}
	return nil
}
