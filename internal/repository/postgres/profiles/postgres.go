package profiles

import (
	"context"
	"errors"
	"time"

	domain "budget-app-go/internal/domain/session"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// CreateProfile never overwrites an existing row, so a concurrent first
// request cannot reset a premium flag.
func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	row := *profile
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	return r.GetProfile(ctx, profile.UserID)
}

func (r *PostgresRepository) UpdateUsername(ctx context.Context, userID, username string) (*domain.Profile, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"username":   username,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return r.GetProfile(ctx, userID)
}

func (r *PostgresRepository) SetPremium(ctx context.Context, userID string, premium bool) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_premium": premium,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
