package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/csmith/spotilove/model"
	"github.com/twoscott/gobble-fm/api"
	"github.com/twoscott/gobble-fm/lastfm"
	"github.com/twoscott/gobble-fm/session"
	"golang.org/x/time/rate"
)

// Last.fm asks clients to stay under five requests per second
const lastfmRequestsPerSecond = 5

// Lastfm is a destination that loves tracks on Last.fm
type Lastfm struct {
	APIKey   string
	Secret   string
	Username string
	Password string

	mu      sync.Mutex
	client  *session.Client
	limiter *rate.Limiter
}

// Connect logs in to Last.fm, so bad credentials are reported before any transfer starts
func (l *Lastfm) Connect(ctx context.Context) error {
	_, err := l.getClient(ctx)
	return err
}

// Love marks a track as loved on Last.fm
func (l *Lastfm) Love(ctx context.Context, artist, title string) error {
	client, err := l.getClient(ctx)
	if err != nil {
		return err
	}

	if err := client.Track.Love(artist, title); err != nil {
		return classifyLastfm(err)
	}

	return nil
}

// Unlove removes loved status from a track on Last.fm
func (l *Lastfm) Unlove(ctx context.Context, track model.LovedTrack) error {
	client, err := l.getClient(ctx)
	if err != nil {
		return err
	}

	if err := client.Track.Unlove(track.Artist, track.Track); err != nil {
		return classifyLastfm(err)
	}

	return nil
}

// LovedTracks retrieves a page of the user's loved tracks from Last.fm
func (l *Lastfm) LovedTracks(ctx context.Context, page, limit int) ([]model.LovedTrack, error) {
	client, err := l.getClient(ctx)
	if err != nil {
		return nil, err
	}

	lovedTracks, err := client.User.LovedTracks(lastfm.LovedTracksParams{
		User:  l.Username,
		Page:  uint(page),
		Limit: uint(limit),
	})
	if err != nil {
		return nil, classifyLastfm(err)
	}

	// Last.fm repeats the final page when asked for one past the end
	if page > 1 && page > int(lovedTracks.TotalPages) {
		return nil, nil
	}

	tracks := make([]model.LovedTrack, 0, len(lovedTracks.Tracks))
	for _, track := range lovedTracks.Tracks {
		tracks = append(tracks, model.LovedTrack{
			Track:      track.Title,
			TrackMBID:  track.MBID,
			Artist:     track.Artist.Name,
			ArtistMBID: track.Artist.MBID,
		})
	}

	return tracks, nil
}

// getClient lazily connects to Last.fm, and waits for the rate limiter
// before handing out the client
func (l *Lastfm) getClient(ctx context.Context) (*session.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limiter == nil {
		l.limiter = rate.NewLimiter(rate.Limit(lastfmRequestsPerSecond), 1)
	}

	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if l.client != nil {
		return l.client, nil
	}

	client := session.NewClient(l.APIKey, l.Secret)
	if err := client.Login(l.Username, l.Password); err != nil {
		return nil, fmt.Errorf("Last.fm login failed: %w", classifyLastfm(err))
	}

	slog.Info("Logged in to Last.fm", "user", l.Username)
	l.client = client
	return l.client, nil
}

// classifyLastfm wraps err with the model error that best describes it
func classifyLastfm(err error) error {
	var lferr *api.LastFMError
	if errors.As(err, &lferr) {
		switch lferr.Code {
		case api.ErrRateLimitExceeded:
			return fmt.Errorf("%w: %w", model.ErrRateLimited, err)
		case api.ErrAuthenticationFailed, api.ErrInvalidSessionKey, api.ErrInvalidAPIKey,
			api.ErrAPIKeySuspended, api.ErrUnauthorizedToken, api.ErrUserNotLoggedIn,
			api.ErrInvalidMethodSignature, api.ErrAPIKeyMissing, api.ErrSecretRequired, api.ErrSessionRequired:
			return fmt.Errorf("%w: %w", model.ErrAuth, err)
		case api.ErrOperationFailed, api.ErrServiceOffline, api.ErrServiceUnavailable:
			return fmt.Errorf("%w: %w", model.ErrNetwork, err)
		default:
			return fmt.Errorf("%w: %w", model.ErrAPI, err)
		}
	}

	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", model.ErrRateLimited, err)
		case httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %w", model.ErrAuth, err)
		case httpErr.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", model.ErrNetwork, err)
		}
	}

	if isNetworkError(err) {
		return fmt.Errorf("%w: %w", model.ErrNetwork, err)
	}
	return fmt.Errorf("%w: %w", model.ErrAPI, err)
}

func isNetworkError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

var _ model.Destination = &Lastfm{}
