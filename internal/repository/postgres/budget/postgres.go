package budget

import (
	"context"
	"errors"
	"time"

	domain "budget-app-go/internal/domain/budget"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Gateway) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListMonths(ctx context.Context, userID string) ([]domain.Month, error) {
	var months []domain.Month
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order asc, created_at asc").
		Find(&months).Error; err != nil {
		return nil, err
	}
	return months, nil
}

func (r *PostgresRepository) ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	var expenses []domain.Expense
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("month_id asc, sort_order asc, created_at asc").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *PostgresRepository) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	var subscriptions []domain.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order asc, created_at asc").
		Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// GetSettings returns nil without error when the user never saved any.
func (r *PostgresRepository) GetSettings(ctx context.Context, userID string) (*domain.Settings, error) {
	var settings domain.Settings
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// LockUser takes a transaction-scoped advisory lock on Postgres. SQLite
// runs on a single connection, so its transactions are already serial.
func (r *PostgresRepository) LockUser(ctx context.Context, userID string) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", userID).Error
}

func (r *PostgresRepository) CountMonths(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Month{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountExpenses(ctx context.Context, userID, monthID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("user_id = ? AND month_id = ?", userID, monthID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountSubscriptions(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) InsertMonth(ctx context.Context, userID string, month *domain.Month) (*domain.Month, error) {
	row := *month
	row.UserID = userID
	row.ID = storedID(row.ID)
	row.Expenses = nil
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *PostgresRepository) UpdateMonth(ctx context.Context, userID string, month *domain.Month) (*domain.Month, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Month{}).
		Where("id = ? AND user_id = ?", month.ID, userID).
		Updates(map[string]interface{}{
			"name":       month.Name,
			"pinned":     month.Pinned,
			"budget":     month.Budget,
			"sort_order": month.SortOrder,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrMonthNotFound
	}

	var updated domain.Month
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", month.ID, userID).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMonth removes the month with its expenses. The explicit expense
// delete keeps stores without cascading foreign keys consistent.
func (r *PostgresRepository) DeleteMonth(ctx context.Context, userID, monthID string) error {
	if err := r.db.WithContext(ctx).
		Delete(&domain.Expense{}, "user_id = ? AND month_id = ?", userID, monthID).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&domain.Month{}, "user_id = ? AND id = ?", userID, monthID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMonthNotFound
	}
	return nil
}

func (r *PostgresRepository) InsertExpense(ctx context.Context, userID string, expense *domain.Expense) (*domain.Expense, error) {
	row := *expense
	row.UserID = userID
	row.ID = storedID(row.ID)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *PostgresRepository) UpdateExpense(ctx context.Context, userID string, expense *domain.Expense) (*domain.Expense, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("id = ? AND user_id = ?", expense.ID, userID).
		Updates(map[string]interface{}{
			"name":       expense.Name,
			"amount":     expense.Amount,
			"pinned":     expense.Pinned,
			"sort_order": expense.SortOrder,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrExpenseNotFound
	}

	var updated domain.Expense
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", expense.ID, userID).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PostgresRepository) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Expense{}, "user_id = ? AND id = ?", userID, expenseID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func (r *PostgresRepository) InsertSubscription(ctx context.Context, userID string, subscription *domain.Subscription) (*domain.Subscription, error) {
	row := *subscription
	row.UserID = userID
	row.ID = storedID(row.ID)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *PostgresRepository) UpdateSubscription(ctx context.Context, userID string, subscription *domain.Subscription) (*domain.Subscription, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("id = ? AND user_id = ?", subscription.ID, userID).
		Updates(map[string]interface{}{
			"name":       subscription.Name,
			"amount":     subscription.Amount,
			"pinned":     subscription.Pinned,
			"sort_order": subscription.SortOrder,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrSubscriptionNotFound
	}

	var updated domain.Subscription
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", subscription.ID, userID).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PostgresRepository) DeleteSubscription(ctx context.Context, userID, subscriptionID string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Subscription{}, "user_id = ? AND id = ?", userID, subscriptionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *PostgresRepository) SaveSettings(ctx context.Context, userID string, settings *domain.Settings) (*domain.Settings, error) {
	row := *settings
	row.UserID = userID
	row.UpdatedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"language":        row.Language,
				"active_month_id": row.ActiveMonthID,
				"updated_at":      row.UpdatedAt,
			}),
		}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// storedID keeps a client id only when it is a well-formed UUID.
func storedID(id string) string {
	if _, err := uuid.Parse(id); err != nil {
		return uuid.NewString()
	}
	return id
}
