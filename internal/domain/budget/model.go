package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

type Month struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	UserID    string          `gorm:"type:uuid;index;not null"`
	Name      string          `gorm:"not null"`
	Pinned    bool            `gorm:"not null;default:false"`
	Budget    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SortOrder int             `gorm:"not null;default:0"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`

	Expenses []Expense `gorm:"-"`
}

func (Month) TableName() string { return "months" }

type Expense struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	UserID    string          `gorm:"type:uuid;index;not null"`
	MonthID   string          `gorm:"type:uuid;index;not null"`
	Name      string          `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Pinned    bool            `gorm:"not null;default:false"`
	SortOrder int             `gorm:"not null;default:0"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (Expense) TableName() string { return "expenses" }

type Subscription struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	UserID    string          `gorm:"type:uuid;index;not null"`
	Name      string          `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Pinned    bool            `gorm:"not null;default:false"`
	SortOrder int             `gorm:"not null;default:0"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (Subscription) TableName() string { return "subscriptions" }

type Settings struct {
	UserID        string    `gorm:"type:uuid;primaryKey"`
	Language      string    `gorm:"size:8;not null"`
	ActiveMonthID *string   `gorm:"type:uuid"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Settings) TableName() string { return "user_settings" }

// ExpensePatch is a partial update; nil fields are left untouched.
type ExpensePatch struct {
	Name   *string
	Amount *decimal.Decimal
}

func (p ExpensePatch) empty() bool {
	return p.Name == nil && p.Amount == nil
}

type Totals struct {
	Budget            decimal.Decimal
	MonthTotal        decimal.Decimal
	Remaining         decimal.Decimal
	SubscriptionTotal decimal.Decimal
}

// Snapshot is a detached, display-ordered copy of a user's state.
type Snapshot struct {
	Months        []Month
	Subscriptions []Subscription
	ActiveMonthID *string
	Language      string
	Totals        Totals
}
