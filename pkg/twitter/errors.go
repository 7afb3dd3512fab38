package twitter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/NethermindEth/tweetbridge/pkg/twitter/dto"
)

var (
	ErrInvalidConfig            = errors.New("invalid configuration")
	ErrMissingAppCredentials    = errors.New("missing consumer key or secret")
	ErrMissingAccessCredentials = errors.New("missing access token or secret")
	ErrMaxRetriesExceeded       = errors.New("maximum retries exceeded")
	ErrInvalidParameters        = errors.New("invalid parameters")
	ErrNoClient                 = errors.New("model is not bound to a twitter client")
)

// APIError is a non-2xx response from the Twitter API.
type APIError struct {
	StatusCode int
	Errors     []dto.ErrorDTO
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("twitter API error: %s", e.Errors[0].Message)
	}
	return fmt.Sprintf("twitter API error: status code %d", e.StatusCode)
}

// Retryable reports whether the request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Code returns the first Twitter error code in the response, or zero.
func (e *APIError) Code() int {
	if len(e.Errors) == 0 {
		return 0
	}
	return e.Errors[0].Code
}
