package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/csmith/spotilove/model"
	"github.com/csmith/spotilove/transfer"
)

const (
	destinationLastfm   = "lastfm"
	destinationSubsonic = "subsonic"
)

// Config is everything the tool needs for a run, gathered from flags and env vars
type Config struct {
	DeleteAll   bool
	DryRun      bool
	Limit       int
	LogFile     string
	Policy      transfer.Policy
	Retries     int
	Period      time.Duration
	Destination string

	Spotify  SpotifyConfig
	Lastfm   LastfmConfig
	Subsonic SubsonicConfig
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	TokenCache   string
}

type LastfmConfig struct {
	APIKey    string
	APISecret string
	Username  string
	Password  string
}

type SubsonicConfig struct {
	Server   string
	Username string
	Password string
}

// envName returns the environment variable that sets the named flag
func envName(flagName string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(flagName))
}

// Validate checks that every credential needed for the selected mode is
// present, returning an error that lists all the missing keys.
func (c *Config) Validate() error {
	var missing []string
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, envName(name))
		}
	}

	if !c.DeleteAll {
		require("spotify-client-id", c.Spotify.ClientID)
		require("spotify-client-secret", c.Spotify.ClientSecret)
		require("spotify-redirect-uri", c.Spotify.RedirectURI)
	}

	switch c.Destination {
	case destinationLastfm:
		require("lastfm-api-key", c.Lastfm.APIKey)
		require("lastfm-api-secret", c.Lastfm.APISecret)
		require("lastfm-username", c.Lastfm.Username)
		require("lastfm-password", c.Lastfm.Password)
	case destinationSubsonic:
		require("subsonic-server", c.Subsonic.Server)
		require("subsonic-username", c.Subsonic.Username)
		require("subsonic-password", c.Subsonic.Password)
	default:
		return fmt.Errorf("%w: unknown destination %q, expected %s or %s", model.ErrConfig, c.Destination, destinationLastfm, destinationSubsonic)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required settings: %s", model.ErrConfig, strings.Join(missing, ", "))
	}

	if c.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", model.ErrConfig)
	}

	if c.Retries < 0 {
		return fmt.Errorf("%w: retries must not be negative", model.ErrConfig)
	}

	if c.LogFile == "" && !c.DeleteAll {
		return fmt.Errorf("%w: log file must be specified", model.ErrConfig)
	}

	return nil
}

// DestinationName is the human readable name of the destination service
func (c *Config) DestinationName() string {
	if c.Destination == destinationSubsonic {
		return "Subsonic"
	}
	return "Last.fm"
}
