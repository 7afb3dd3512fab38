// Package auth runs the three-legged OAuth 1.0a flow that turns consumer
// credentials into user access credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/dghubble/oauth1"
	oauthtwitter "github.com/dghubble/oauth1/twitter"
	"github.com/gin-gonic/gin"
)

const (
	loginRoute    = "/login"
	callbackRoute = "/callback"
)

var (
	ErrNoPendingLogin = errors.New("no login in progress")
	ErrTokenMismatch  = errors.New("oauth token mismatch")
)

// Credentials are the user access token pair produced by a successful login.
type Credentials struct {
	AccessToken  string
	AccessSecret string
}

type Config struct {
	// Addr is the host:port the server listens on.
	Addr           string
	ConsumerKey    string
	ConsumerSecret string
	// CallbackURL defaults to http://<Addr>/callback.
	CallbackURL string
	// Endpoint defaults to Twitter's authenticate endpoint.
	Endpoint   oauth1.Endpoint
	HTTPClient *http.Client
}

type LoginServer struct {
	server *http.Server
	addr   string
	oauth  *oauth1.Config

	doneCh   chan struct{}
	doneOnce sync.Once

	mu            sync.Mutex
	requestToken  string
	requestSecret string
	credentials   *Credentials
}

func NewLoginServer(config Config) *LoginServer {
	if config.Endpoint == (oauth1.Endpoint{}) {
		config.Endpoint = oauthtwitter.AuthenticateEndpoint
	}
	if config.CallbackURL == "" {
		config.CallbackURL = "http://" + config.Addr + callbackRoute
	}

	oauthConfig := oauth1.NewConfig(config.ConsumerKey, config.ConsumerSecret)
	oauthConfig.CallbackURL = config.CallbackURL
	oauthConfig.Endpoint = config.Endpoint
	oauthConfig.HTTPClient = config.HTTPClient

	return &LoginServer{
		addr:   config.Addr,
		oauth:  oauthConfig,
		doneCh: make(chan struct{}),
	}
}

func (s *LoginServer) LoginURL() string {
	return "http://" + s.addr + loginRoute
}

func (s *LoginServer) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(loginRoute, s.handleLogin)
	router.GET(callbackRoute, s.handleCallback)

	return router
}

// Start serves the login routes in the background until a login completes.
func (s *LoginServer) Start() {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("login server error", "error", err)
		}
	}()
}

// WaitForCredentials blocks until the callback has exchanged the verifier for
// access credentials.
func (s *LoginServer) WaitForCredentials(ctx context.Context) (*Credentials, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.doneCh:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credentials, nil
}

func (s *LoginServer) shutdown() error {
	s.doneOnce.Do(func() { close(s.doneCh) })
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("login server shutdown: %w", err)
	}
	return nil
}

func (s *LoginServer) handleLogin(c *gin.Context) {
	slog.Info("login request received")

	requestToken, requestSecret, err := s.oauth.RequestToken()
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("Failed to request OAuth token: %v", err))
		return
	}

	s.mu.Lock()
	s.requestToken = requestToken
	s.requestSecret = requestSecret
	s.mu.Unlock()

	authURL, err := s.oauth.AuthorizationURL(requestToken)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("Failed to build authorization url: %v", err))
		return
	}

	slog.Info("redirecting to twitter", "url", authURL.String())
	c.Redirect(http.StatusTemporaryRedirect, authURL.String())
}

func (s *LoginServer) handleCallback(c *gin.Context) {
	token, verifier, err := oauth1.ParseAuthorizationCallback(c.Request)
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("Invalid callback query: %v", err))
		return
	}

	slog.Info("callback received")

	s.mu.Lock()
	requestToken, requestSecret := s.requestToken, s.requestSecret
	s.mu.Unlock()

	switch {
	case requestToken == "":
		c.String(http.StatusBadRequest, ErrNoPendingLogin.Error())
		return
	case token != requestToken:
		c.String(http.StatusBadRequest, ErrTokenMismatch.Error())
		return
	}

	accessToken, accessSecret, err := s.oauth.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("Failed to authorize token: %v", err))
		return
	}

	s.mu.Lock()
	s.credentials = &Credentials{AccessToken: accessToken, AccessSecret: accessSecret}
	s.mu.Unlock()

	go func() {
		if err := s.shutdown(); err != nil {
			slog.Error("failed to stop login server", "error", err)
		}
	}()

	c.String(http.StatusOK, "Successfully logged in")
}
