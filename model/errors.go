package model

import "errors"

var (
	// ErrConfig is returned when required configuration is missing or invalid
	ErrConfig = errors.New("configuration error")
	// ErrAuth is returned when a provider rejects our credentials
	ErrAuth = errors.New("authentication failed")
	// ErrNetwork is returned when a provider couldn't be reached
	ErrNetwork = errors.New("network error")
	// ErrRateLimited is returned when a provider asks us to slow down
	ErrRateLimited = errors.New("rate limited")
	// ErrAPI is returned for any other error reported by a provider
	ErrAPI = errors.New("API request failed")
)

// Transient reports whether err is worth retrying
func Transient(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrRateLimited)
}
