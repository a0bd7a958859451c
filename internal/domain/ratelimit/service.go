package ratelimit

import (
	"context"
	"errors"
	"time"

	"budget-app-go/pkg/logger"

	"github.com/google/uuid"
)

const DefaultWindow = time.Hour

var ErrRateLimited = errors.New("too many requests")

type Service struct {
	repo   Repository
	limits map[string]int
	window time.Duration
	log    logger.Logger
	now    func() time.Time
}

// NewService limits each function to limits[function] calls per user
// within window. Functions without a positive limit are not limited.
func NewService(repo Repository, limits map[string]int, window time.Duration, log logger.Logger) *Service {
	if window <= 0 {
		window = DefaultWindow
	}
	copied := make(map[string]int, len(limits))
	for name, limit := range limits {
		copied[name] = limit
	}
	return &Service{repo: repo, limits: copied, window: window, log: log, now: time.Now}
}

// Allow records the call and returns nil, or ErrRateLimited once the user
// used up the window. Failing to count lets the call through.
func (s *Service) Allow(ctx context.Context, userID, function string) error {
	limit := s.limits[function]
	if limit <= 0 {
		return nil
	}

	now := s.now().UTC()
	count, err := s.repo.CountSince(ctx, userID, function, now.Add(-s.window))
	if err != nil {
		s.log.InternalError("ratelimit: count failed", err, "user_id", userID, "function", function)
	} else if count >= int64(limit) {
		s.log.Warn("ratelimit: limit exceeded", "user_id", userID, "function", function, "count", count)
		return ErrRateLimited
	}

	entry := Entry{
		ID:           uuid.NewString(),
		UserID:       userID,
		FunctionName: function,
		CreatedAt:    now,
	}
	if err := s.repo.Record(ctx, &entry); err != nil {
		s.log.InternalError("ratelimit: record failed", err, "user_id", userID, "function", function)
	}
	return nil
}
