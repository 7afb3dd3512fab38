// Package webhook receives Account Activity API deliveries and hands the
// tweets and direct messages they carry to registered handlers as models.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"

	"github.com/NethermindEth/tweetbridge/pkg/bridge"
	"github.com/NethermindEth/tweetbridge/pkg/twitter"
	"github.com/NethermindEth/tweetbridge/pkg/twitter/dto"
	"github.com/NethermindEth/tweetbridge/pkg/utils/metrics"
)

const (
	defaultPath    = "/webhooks/twitter"
	defaultWorkers = 8
	signatureKey   = "x-twitter-webhooks-signature"
	maxBodySize    = 4 << 20
)

type TweetHandler func(ctx context.Context, forUserID int64, tweet twitter.Tweet) error

type MessageHandler func(ctx context.Context, forUserID int64, message twitter.Message) error

type Config struct {
	ConsumerSecret string
	// Path the CRC check and deliveries arrive on.
	Path    string
	Workers int
	// Client, when set, binds delivered models to it. Otherwise models are
	// offline and their API helpers return twitter.ErrNoClient.
	Client  *twitter.TwitterClient
	Metrics *metrics.MetricsCollector
}

// activityPayload is the envelope of a delivery. Only the event kinds the
// server dispatches are decoded.
type activityPayload struct {
	ForUserID           jsoniter.RawMessage    `json:"for_user_id"`
	TweetCreateEvents   jsoniter.RawMessage    `json:"tweet_create_events"`
	DirectMessageEvents jsoniter.RawMessage    `json:"direct_message_events"`
	Apps                map[string]*dto.AppDTO `json:"apps"`
}

type Server struct {
	secret  string
	path    string
	bridge  *bridge.Bridge
	factory *twitter.Factories
	pool    pond.Pool
	metrics *metrics.MetricsCollector

	baseCtx context.Context

	mu              sync.RWMutex
	tweetHandlers   []TweetHandler
	messageHandlers []MessageHandler
}

func NewServer(config Config) *Server {
	if config.Path == "" {
		config.Path = defaultPath
	}
	if config.Workers <= 0 {
		config.Workers = defaultWorkers
	}

	s := &Server{
		secret:  config.ConsumerSecret,
		path:    config.Path,
		pool:    pond.NewPool(config.Workers),
		metrics: config.Metrics,
		baseCtx: context.Background(),
	}
	if config.Client != nil {
		s.bridge, s.factory = config.Client.Bridge(), config.Client.Factories()
	} else {
		s.bridge, s.factory = twitter.NewBridge(nil, config.Metrics)
	}
	return s
}

func (s *Server) OnTweet(h TweetHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tweetHandlers = append(s.tweetHandlers, h)
}

func (s *Server) OnMessage(h MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageHandlers = append(s.messageHandlers, h)
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(s.path, s.handleCRC)
	router.POST(s.path, s.handleEvents)

	return router
}

// Run serves on addr until ctx is cancelled, then drains queued handlers.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.baseCtx = ctx

	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			s.pool.StopAndWait()
			return fmt.Errorf("webhook server: %w", err)
		}
	}

	if err := server.Shutdown(context.Background()); err != nil {
		slog.Error("webhook server shutdown error", "error", err)
	}
	s.pool.StopAndWait()
	return nil
}

// Close waits for queued handlers when the server was mounted through Handler.
func (s *Server) Close() {
	s.pool.StopAndWait()
}

func (s *Server) handleCRC(c *gin.Context) {
	token := c.Query("crc_token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing crc_token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response_token": CRCResponse(s.secret, token)})
}

func (s *Server) handleEvents(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.count(metrics.MetricWebhookRejected)
			slog.Warn("oversized webhook delivery", "limit", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "delivery too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	if err := VerifySignature(s.secret, body, c.GetHeader(signatureKey)); err != nil {
		s.count(metrics.MetricWebhookRejected)
		slog.Warn("rejected webhook delivery", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	forUserID, tweets, messages, err := s.decode(body)
	if err != nil {
		s.count(metrics.MetricWebhookRejected)
		slog.Warn("malformed webhook delivery", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.dispatch(forUserID, tweets, messages)
	c.Status(http.StatusOK)
}

func (s *Server) decode(body []byte) (int64, []twitter.Tweet, []twitter.Message, error) {
	var payload activityPayload
	if err := s.bridge.Codec().Decode(string(body), &payload); err != nil {
		return 0, nil, nil, fmt.Errorf("decode payload: %w", err)
	}

	forUserID, err := cast.ToInt64E(strings.Trim(string(payload.ForUserID), `"`))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("decode for_user_id: %w", err)
	}

	var tweets []twitter.Tweet
	if len(payload.TweetCreateEvents) > 0 {
		tweets, err = bridge.Deserialize[[]twitter.Tweet](s.bridge, string(payload.TweetCreateEvents))
		if err != nil {
			return 0, nil, nil, err
		}
	}

	var messages []twitter.Message
	if len(payload.DirectMessageEvents) > 0 {
		events, err := bridge.Deserialize[[]*dto.MessageEventDTO](s.bridge, string(payload.DirectMessageEvents))
		if err != nil {
			return 0, nil, nil, err
		}
		for _, event := range events {
			var app *dto.AppDTO
			if event != nil && event.MessageCreate != nil {
				app = payload.Apps[event.MessageCreate.SourceAppID]
			}
			if m := s.factory.MessageFromDTO(event, app); m != nil {
				messages = append(messages, m)
			}
		}
	}

	return forUserID, tweets, messages, nil
}

func (s *Server) dispatch(forUserID int64, tweets []twitter.Tweet, messages []twitter.Message) {
	s.mu.RLock()
	tweetHandlers := s.tweetHandlers
	messageHandlers := s.messageHandlers
	s.mu.RUnlock()

	ctx := s.baseCtx

	for _, tw := range tweets {
		if tw == nil {
			continue
		}
		s.count(metrics.MetricWebhookEvents)
		for _, h := range tweetHandlers {
			s.submit(func() error { return h(ctx, forUserID, tw) }, "tweet", tw.ID())
		}
	}

	for _, m := range messages {
		s.count(metrics.MetricWebhookEvents)
		for _, h := range messageHandlers {
			s.submit(func() error { return h(ctx, forUserID, m) }, "message", m.ID())
		}
	}
}

func (s *Server) submit(task func() error, kind string, id int64) {
	err := s.pool.Go(func() {
		if err := task(); err != nil {
			slog.Error("webhook handler failed", "kind", kind, "id", id, "error", err)
		}
	})
	if err != nil {
		slog.Error("failed to queue webhook handler", "kind", kind, "id", id, "error", err)
	}
}

func (s *Server) count(name string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter(name)
	}
}
