package twitch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles JOINs to what Twitch allows per window
type RateLimiter struct {
	joinLimit int
	limiter   *rate.Limiter
}

// Unlimited disables throttling
const Unlimited = -1

// joinRateWindow is the window Twitch counts joins in
const joinRateWindow = 10 * time.Second

// CreateDefaultRateLimiter 20 joins per 10 seconds, the limit of regular accounts
func CreateDefaultRateLimiter() *RateLimiter {
	return createRateLimiter(20)
}

// CreateVerifiedRateLimiter 2000 joins per 10 seconds, the limit of verified bots
func CreateVerifiedRateLimiter() *RateLimiter {
	return createRateLimiter(2000)
}

// CreateUnlimitedRateLimiter never throttles
func CreateUnlimitedRateLimiter() *RateLimiter {
	return createRateLimiter(Unlimited)
}

func createRateLimiter(limit int) *RateLimiter {
	if limit == Unlimited {
		return &RateLimiter{
			joinLimit: limit,
			limiter:   rate.NewLimiter(rate.Inf, 0),
		}
	}

	return &RateLimiter{
		joinLimit: limit,
		limiter:   rate.NewLimiter(rate.Every(joinRateWindow/time.Duration(limit)), limit),
	}
}

// IsUnlimited reports whether Throttle ever blocks
func (r *RateLimiter) IsUnlimited() bool {
	return r.joinLimit == Unlimited
}

// Throttle blocks until n joins may be sent or ctx is done
func (r *RateLimiter) Throttle(ctx context.Context, n int) error {
	if r.IsUnlimited() {
		return nil
	}

	if n > r.joinLimit {
		n = r.joinLimit
	}

	return r.limiter.WaitN(ctx, n)
}
