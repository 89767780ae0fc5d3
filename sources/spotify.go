package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/csmith/spotilove/model"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// Spotify is a library that provides the user's liked songs from Spotify
type Spotify struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// TokenCache is where the OAuth token is kept between runs. Empty disables caching.
	TokenCache string
	// OpenBrowser is called with the authorization URL when the user needs to log in
	OpenBrowser func(url string) error

	client *spotify.Client
	// login and clientOptions are replaced in tests
	login         func(ctx context.Context, auth *spotifyauth.Authenticator) (*oauth2.Token, error)
	clientOptions []spotify.ClientOption
}

func (s *Spotify) authenticator() *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithClientID(s.ClientID),
		spotifyauth.WithClientSecret(s.ClientSecret),
		spotifyauth.WithRedirectURL(s.RedirectURI),
		spotifyauth.WithScopes(spotifyauth.ScopeUserLibraryRead),
	)
}

// Connect obtains a token, either from the cache or by asking the user to
// authorize us in their browser, and checks that Spotify accepts it. A cached
// token that Spotify rejects is replaced by authorizing again.
func (s *Spotify) Connect(ctx context.Context) error {
	auth := s.authenticator()

	token, err := s.loadToken()
	if err != nil {
		slog.Warn("Ignoring unreadable Spotify token cache", "path", s.TokenCache, "error", err)
	}

	if token != nil {
		err := s.connectWith(ctx, auth, token)
		if err == nil || !errors.Is(err, model.ErrAuth) {
			return err
		}
		slog.Warn("Cached Spotify token was rejected, authorizing again", "error", err)
	}

	login := s.login
	if login == nil {
		login = func(ctx context.Context, auth *spotifyauth.Authenticator) (*oauth2.Token, error) {
			return authorize(ctx, auth, s.RedirectURI, s.OpenBrowser)
		}
	}

	token, err = login(ctx, auth)
	if err != nil {
		return err
	}

	if err := s.saveToken(token); err != nil {
		slog.Warn("Failed to save Spotify token", "path", s.TokenCache, "error", err)
	}

	return s.connectWith(ctx, auth, token)
}

// connectWith builds a client around token and checks it by fetching the current user
func (s *Spotify) connectWith(ctx context.Context, auth *spotifyauth.Authenticator, token *oauth2.Token) error {
	source := oauth2.ReuseTokenSource(token, &cachingTokenSource{
		ctx:     ctx,
		token:   token,
		refresh: auth.RefreshToken,
		save:    s.saveToken,
	})

	client := spotify.New(oauth2.NewClient(ctx, source), s.clientOptions...)
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get Spotify user: %w", classifySpotify(err))
	}

	slog.Info("Connected to Spotify", "user", user.ID)
	s.client = client
	return nil
}

// cachingTokenSource refreshes expired tokens and writes each new token to the cache
type cachingTokenSource struct {
	ctx     context.Context
	token   *oauth2.Token
	refresh func(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
	save    func(token *oauth2.Token) error
}

func (c *cachingTokenSource) Token() (*oauth2.Token, error) {
	token, err := c.refresh(c.ctx, c.token)
	if err != nil {
		return nil, err
	}

	if token.AccessToken != c.token.AccessToken {
		// Spotify doesn't always issue a new refresh token
		if token.RefreshToken == "" {
			token.RefreshToken = c.token.RefreshToken
		}
		c.token = token

		slog.Debug("Refreshed Spotify token")
		if err := c.save(token); err != nil {
			slog.Warn("Failed to save refreshed Spotify token", "error", err)
		}
	}

	return token, nil
}

// LikedTracks retrieves a page of the user's saved tracks
func (s *Spotify) LikedTracks(ctx context.Context, limit, offset int) ([]*model.LikedItem, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: not connected to Spotify", model.ErrAuth)
	}

	page, err := s.client.CurrentUsersTracks(ctx, spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return nil, classifySpotify(err)
	}

	items := make([]*model.LikedItem, len(page.Tracks))
	for i, saved := range page.Tracks {
		// Tracks removed from the catalogue come back as null
		if saved.ID == "" {
			continue
		}

		item := &model.LikedItem{
			Track: saved.Name,
			Album: saved.Album.Name,
			ID:    string(saved.ID),
		}
		if len(saved.Artists) > 0 {
			item.Artist = saved.Artists[0].Name
		}
		items[i] = item
	}

	return items, nil
}

func (s *Spotify) loadToken() (*oauth2.Token, error) {
	if s.TokenCache == "" {
		return nil, nil
	}

	data, err := os.ReadFile(s.TokenCache)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, err
	}

	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, nil
	}

	slog.Debug("Using cached Spotify token", "path", s.TokenCache)
	return token, nil
}

func (s *Spotify) saveToken(token *oauth2.Token) error {
	if s.TokenCache == "" {
		return nil
	}

	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	return os.WriteFile(s.TokenCache, data, 0600)
}

// classifySpotify wraps err with the model error that best describes it
func classifySpotify(err error) error {
	var status int
	var value spotify.Error
	var pointer *spotify.Error
	if errors.As(err, &value) {
		status = value.Status
	} else if errors.As(err, &pointer) {
		status = pointer.Status
	}

	var retrieveErr *oauth2.RetrieveError
	var netErr net.Error

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", model.ErrAuth, err)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", model.ErrRateLimited, err)
	case status != 0:
		return fmt.Errorf("%w: %w", model.ErrAPI, err)
	case errors.As(err, &retrieveErr):
		return fmt.Errorf("%w: %w", model.ErrAuth, err)
	case errors.As(err, &netErr):
		return fmt.Errorf("%w: %w", model.ErrNetwork, err)
	default:
		return fmt.Errorf("%w: %w", model.ErrAPI, err)
	}
}

var _ model.Library = &Spotify{}
