package twitter

import (
	"context"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
	"golang.org/x/time/rate"

	"github.com/NethermindEth/tweetbridge/pkg/bridge"
	"github.com/NethermindEth/tweetbridge/pkg/utils/metrics"
)

var (
	twitterAPIBaseURL     = "https://api.twitter.com/1.1"
	twitterPublishBaseURL = "https://publish.twitter.com"
)

const (
	defaultRateLimit  = rate.Limit(5)
	defaultRateBurst  = 5
	defaultMaxRetries = 3
	defaultRetryDelay = 500 * time.Millisecond
	defaultMaxWait    = 15 * time.Minute
)

type TwitterConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string

	// BaseURL and PublishURL override the REST and oEmbed roots.
	BaseURL    string
	PublishURL string

	// RateLimit is the number of requests per second the client will send.
	RateLimit rate.Limit
	RateBurst int
	// MaxRetries bounds retries of rate limited and 5xx responses.
	MaxRetries uint64
	RetryDelay time.Duration
	// MaxRateLimitWait caps how long a retry waits for x-rate-limit-reset.
	MaxRateLimitWait time.Duration

	// HTTPClient is the transport underneath OAuth signing.
	HTTPClient *http.Client
	Metrics    *metrics.MetricsCollector
}

// TwitterClient talks to the v1.1 REST API and returns bridge-backed models.
type TwitterClient struct {
	config   *TwitterConfig
	executor *executor

	bridge    *bridge.Bridge
	factories *Factories

	Tweets   *TweetsAPI
	Users    *UsersAPI
	Lists    *ListsAPI
	Messages *MessagesAPI
	Search   *SearchAPI
	Account  *AccountAPI
}

func NewTwitterClient(config *TwitterConfig) (*TwitterClient, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}
	if config.ConsumerKey == "" || config.ConsumerSecret == "" {
		return nil, ErrMissingAppCredentials
	}
	if config.AccessToken == "" || config.AccessSecret == "" {
		return nil, ErrMissingAccessCredentials
	}

	cfg := *config
	if cfg.BaseURL == "" {
		cfg.BaseURL = twitterAPIBaseURL
	}
	if cfg.PublishURL == "" {
		cfg.PublishURL = twitterPublishBaseURL
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = defaultRateBurst
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.MaxRateLimitWait <= 0 {
		cfg.MaxRateLimitWait = defaultMaxWait
	}

	ctx := context.Background()
	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth1.HTTPClient, cfg.HTTPClient)
	}
	httpClient := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret).
		Client(ctx, oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret))

	c := &TwitterClient{config: &cfg}
	c.bridge, c.factories = NewBridge(c, cfg.Metrics)
	c.executor = &executor{
		client:      httpClient,
		codec:       c.bridge.Codec(),
		rateLimiter: rate.NewLimiter(cfg.RateLimit, cfg.RateBurst),
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		maxWait:     cfg.MaxRateLimitWait,
		metrics:     cfg.Metrics,
	}

	c.Tweets = &TweetsAPI{client: c}
	c.Users = &UsersAPI{client: c}
	c.Lists = &ListsAPI{client: c}
	c.Messages = &MessagesAPI{client: c}
	c.Search = &SearchAPI{client: c}
	c.Account = &AccountAPI{client: c}

	return c, nil
}

// Bridge returns the JSON bridge models of this client are written and read with.
func (c *TwitterClient) Bridge() *bridge.Bridge {
	return c.bridge
}

func (c *TwitterClient) Factories() *Factories {
	return c.factories
}

func (c *TwitterClient) endpoint(path string) string {
	return c.config.BaseURL + path
}
