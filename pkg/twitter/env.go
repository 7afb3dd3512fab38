package twitter

import (
	"log/slog"
	"os"

	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

const (
	ConsumerKeyKey       = "X_CONSUMER_KEY"
	ConsumerSecretKey    = "X_CONSUMER_SECRET"
	AccessTokenKey       = "X_ACCESS_TOKEN"
	AccessTokenSecretKey = "X_ACCESS_TOKEN_SECRET"
	RateLimitKey         = "X_RATE_LIMIT"
)

// ConfigFromEnv reads credentials from the environment. Unset variables are
// logged and left empty for NewTwitterClient to reject.
func ConfigFromEnv() *TwitterConfig {
	return &TwitterConfig{
		ConsumerKey:    envGet(ConsumerKeyKey),
		ConsumerSecret: envGet(ConsumerSecretKey),
		AccessToken:    envGet(AccessTokenKey),
		AccessSecret:   envGet(AccessTokenSecretKey),
		RateLimit:      envGetRateLimit(),
	}
}

func envGet(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		slog.Warn(key + " environment variable not set")
	}
	return value
}

func envGetRateLimit() rate.Limit {
	value, ok := os.LookupEnv(RateLimitKey)
	if !ok {
		return 0
	}
	limit, err := cast.ToFloat64E(value)
	if err != nil {
		slog.Warn("invalid "+RateLimitKey+", using default", "value", value, "error", err)
		return 0
	}
	return rate.Limit(limit)
}
