package main

import (
	"time"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	hourlyLimiter *rate.Limiter
	dailyLimiter  *rate.Limiter
	lastReset     time.Time
	banUntil      time.Time
}

// checkRateLimits reports whether the user may issue another command.
// Exceeding either the hourly or the daily budget puts the user into a
// temporary ban.
func (b *Bot) checkRateLimits(userID int64) bool {
	b.userLimitersMu.Lock()
	defer b.userLimitersMu.Unlock()

	limiter, exists := b.userLimiters[userID]
	if !exists {
		limiter = &userLimiter{
			hourlyLimiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(b.config.MessagePerHour)), b.config.MessagePerHour),
			dailyLimiter:  rate.NewLimiter(rate.Every(24*time.Hour/time.Duration(b.config.MessagePerDay)), b.config.MessagePerDay),
			lastReset:     b.clock.Now(),
		}
		b.userLimiters[userID] = limiter
	}

	now := b.clock.Now()

	if now.Before(limiter.banUntil) {
		return false
	}

	if now.Sub(limiter.lastReset) >= 24*time.Hour {
		limiter.dailyLimiter = rate.NewLimiter(rate.Every(24*time.Hour/time.Duration(b.config.MessagePerDay)), b.config.MessagePerDay)
		limiter.lastReset = now
	}

	if !limiter.hourlyLimiter.AllowN(now, 1) || !limiter.dailyLimiter.AllowN(now, 1) {
		banDuration, _ := time.ParseDuration(b.config.TempBanDuration)
		limiter.banUntil = now.Add(banDuration)
		return false
	}

	return true
}
