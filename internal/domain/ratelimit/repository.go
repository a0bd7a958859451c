package ratelimit

import (
	"context"
	"time"
)

type Repository interface {
	CountSince(ctx context.Context, userID, function string, since time.Time) (int64, error)
	Record(ctx context.Context, entry *Entry) error
}
