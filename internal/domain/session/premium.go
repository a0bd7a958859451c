package session

import (
	"context"
	"errors"
)

// PremiumChecker reads the entitlement flag straight from the profile
// store, so a payment verified on another device is seen on the next call.
type PremiumChecker struct {
	profiles ProfileRepository
}

func NewPremiumChecker(profiles ProfileRepository) *PremiumChecker {
	return &PremiumChecker{profiles: profiles}
}

func (c *PremiumChecker) IsPremium(ctx context.Context, userID string) (bool, error) {
	profile, err := c.profiles.GetProfile(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return profile.IsPremium, nil
}
