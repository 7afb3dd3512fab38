package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeTwitter(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/request_token", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Authorization"), "oauth_callback")
		io.WriteString(w, "oauth_token=request-token&oauth_token_secret=request-secret&oauth_callback_confirmed=true")
	})
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Authorization"), "oauth_verifier")
		io.WriteString(w, "oauth_token=access-token&oauth_token_secret=access-secret")
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestLoginServer(t *testing.T) *LoginServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := newFakeTwitter(t)
	return NewLoginServer(Config{
		Addr:           "127.0.0.1:0",
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: fake.URL + "/oauth/request_token",
			AuthorizeURL:    fake.URL + "/oauth/authenticate",
			AccessTokenURL:  fake.URL + "/oauth/access_token",
		},
		HTTPClient: fake.Client(),
	})
}

func serve(handler http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestLoginServer_Flow(t *testing.T) {
	server := newTestLoginServer(t)
	handler := server.Handler()

	rec := serve(handler, "/login")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location := rec.Header().Get("Location")
	assert.True(t, strings.Contains(location, "/oauth/authenticate"), location)
	assert.Contains(t, location, "oauth_token=request-token")

	rec = serve(handler, "/callback?oauth_token=request-token&oauth_verifier=verifier")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	creds, err := server.WaitForCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Credentials{AccessToken: "access-token", AccessSecret: "access-secret"}, creds)
}

func TestLoginServer_CallbackErrors(t *testing.T) {
	tests := []struct {
		name   string
		login  bool
		target string
		want   string
	}{
		{
			name:   "missing verifier",
			target: "/callback?oauth_token=request-token",
			want:   "Invalid callback query",
		},
		{
			name:   "no login in progress",
			target: "/callback?oauth_token=request-token&oauth_verifier=v",
			want:   ErrNoPendingLogin.Error(),
		},
		{
			name:   "token mismatch",
			login:  true,
			target: "/callback?oauth_token=other&oauth_verifier=v",
			want:   ErrTokenMismatch.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestLoginServer(t)
			handler := server.Handler()

			if tt.login {
				require.Equal(t, http.StatusTemporaryRedirect, serve(handler, "/login").Code)
			}

			rec := serve(handler, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestLoginServer_WaitRespectsContext(t *testing.T) {
	server := newTestLoginServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := server.WaitForCredentials(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
