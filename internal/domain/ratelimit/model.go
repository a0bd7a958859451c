package ratelimit

import "time"

// Entry is one recorded call of a limited function.
type Entry struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	UserID       string    `gorm:"type:uuid;index:idx_rate_limits_lookup,priority:1;not null"`
	FunctionName string    `gorm:"size:64;index:idx_rate_limits_lookup,priority:2;not null"`
	CreatedAt    time.Time `gorm:"index:idx_rate_limits_lookup,priority:3;not null"`
}

func (Entry) TableName() string { return "rate_limits" }

const (
	FunctionCheckout = "create-checkout"
	FunctionDonation = "create-donation"
	FunctionVerify   = "verify-payment"
	FunctionFeedback = "send-feedback"
)
