package sources

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/csmith/spotilove/model"
	"github.com/stretchr/testify/assert"
	"github.com/twoscott/gobble-fm/api"
)

func TestClassifyLastfm(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"rate limit exceeded", api.NewLastFMError(api.ErrRateLimitExceeded, "Rate limit exceeded"), model.ErrRateLimited},
		{"invalid session key", api.NewLastFMError(api.ErrInvalidSessionKey, "Invalid session key"), model.ErrAuth},
		{"authentication failed", api.NewLastFMError(api.ErrAuthenticationFailed, "Authentication Failed"), model.ErrAuth},
		{"invalid api key", api.NewLastFMError(api.ErrInvalidAPIKey, "Invalid API key"), model.ErrAuth},
		{"suspended api key", api.NewLastFMError(api.ErrAPIKeySuspended, "Suspended API key"), model.ErrAuth},
		{"service offline", api.NewLastFMError(api.ErrServiceOffline, "Service Offline"), model.ErrNetwork},
		{"service unavailable", api.NewLastFMError(api.ErrServiceUnavailable, "Temporarily unavailable"), model.ErrNetwork},
		{"operation failed", api.NewLastFMError(api.ErrOperationFailed, "Operation failed"), model.ErrNetwork},
		{"invalid parameters", api.NewLastFMError(api.ErrInvalidParameters, "Track not recognised"), model.ErrAPI},
		{"wrapped code", fmt.Errorf("love failed: %w", api.NewLastFMError(api.ErrRateLimitExceeded, "")), model.ErrRateLimited},
		{"http too many requests", &api.HTTPError{StatusCode: 429, Message: "Too Many Requests"}, model.ErrRateLimited},
		{"http server error", &api.HTTPError{StatusCode: 502, Message: "Bad Gateway"}, model.ErrNetwork},
		{"http forbidden", &api.HTTPError{StatusCode: 403, Message: "Forbidden"}, model.ErrAuth},
		{"http bad request", &api.HTTPError{StatusCode: 400, Message: "Bad Request"}, model.ErrAPI},
		{"network", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, model.ErrNetwork},
		{"plain", errors.New("invalid XML response"), model.ErrAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLastfm(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyLastfm_transient(t *testing.T) {
	assert.True(t, model.Transient(classifyLastfm(api.NewLastFMError(api.ErrRateLimitExceeded, ""))))
	assert.True(t, model.Transient(classifyLastfm(api.NewLastFMError(api.ErrServiceOffline, ""))))
	assert.False(t, model.Transient(classifyLastfm(api.NewLastFMError(api.ErrInvalidSessionKey, ""))))
	assert.False(t, model.Transient(classifyLastfm(api.NewLastFMError(api.ErrInvalidParameters, ""))))
}
