package repositories

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/mroshb/beach_trivia_bot/internal/models"
	"github.com/mroshb/beach_trivia_bot/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresXPRepository struct {
	db *gorm.DB
}

func NewPostgresXPRepository(db *gorm.DB) *PostgresXPRepository {
	return &PostgresXPRepository{db: db}
}

// GetXP retrieves the XP of a user
func (r *PostgresXPRepository) GetXP(ctx context.Context, userID string) (int64, error) {
	var record models.UserXP
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get xp")
	}
	return record.XP, nil
}

// AddXP upserts the record, incrementing xp in place so concurrent awards never lose updates
func (r *PostgresXPRepository) AddXP(ctx context.Context, userID string, amount int64) (int64, error) {
	if err := validateAward(userID, amount); err != nil {
		return 0, err
	}

	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := models.UserXP{UserID: userID, XP: amount}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"xp":         gorm.Expr("user_xp.xp + ?", amount),
				"updated_at": time.Now().UTC(),
			}),
		}).Create(&record).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add xp")
		}

		if err := tx.Model(&models.UserXP{}).
			Where("user_id = ?", userID).
			Select("xp").
			Scan(&total).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to read xp")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// ListXP returns all records, oldest first
func (r *PostgresXPRepository) ListXP(ctx context.Context) ([]models.UserXP, error) {
	var records []models.UserXP
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("user_id ASC").
		Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list xp")
	}
	return records, nil
}
