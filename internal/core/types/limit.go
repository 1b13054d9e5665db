package types

import (
	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"
)

const (
	DefaultRateLimit = 1 * humanize.GByte // 1GB/s
	DefaultRateBurst = 1 * humanize.MByte
)

type RateLimiter struct {
	*rate.Limiter
}

func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(DefaultRateLimit)
}

// NewRateLimiter creates a limiter for the given byte rate. A zero rate
// means unlimited.
func NewRateLimiter(rateLimit Bytes) *RateLimiter {
	rateInt := rateLimit.Bytes()
	if rateInt == 0 {
		return &RateLimiter{rate.NewLimiter(rate.Inf, 0)}
	}

	burst := int(Bytes(DefaultRateBurst).Bytes())
	if burst > int(rateInt/10) && rateInt > 10 {
		burst = int(rateInt / 10)
	}
	if burst < 1 {
		burst = 1
	}

	return &RateLimiter{rate.NewLimiter(rate.Limit(rateInt), burst)}
}
