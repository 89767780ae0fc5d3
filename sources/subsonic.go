package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/csmith/spotilove/matcher"
	"github.com/csmith/spotilove/model"
	"github.com/supersonic-app/go-subsonic/subsonic"
)

const subsonicSearchSize = 20

// Subsonic is a destination that stars tracks on a Subsonic server
type Subsonic struct {
	BaseURL    string
	Username   string
	Password   string
	ClientName string
	HTTPClient *http.Client

	mu     sync.Mutex
	client *subsonic.Client
}

// Connect authenticates with the Subsonic server
func (s *Subsonic) Connect(context.Context) error {
	_, err := s.getClient()
	return err
}

// Love stars the song on the server that best matches the artist and title.
// Songs that aren't in the library are logged and otherwise ignored.
func (s *Subsonic) Love(ctx context.Context, artist, title string) error {
	return s.LoveOnAlbum(ctx, artist, title, "")
}

// LoveOnAlbum is Love, but prefers the copy of the song on the given album
// when the library has more than one.
func (s *Subsonic) LoveOnAlbum(_ context.Context, artist, title, album string) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}

	song, err := s.findSong(client, model.LovedTrack{Artist: artist, Track: title, Album: album})
	if err != nil {
		return err
	}

	if song == nil {
		slog.Warn("Song not found", "artist", artist, "title", title, "destination", "subsonic")
		return nil
	}

	if err := client.Star(subsonic.StarParameters{SongIDs: []string{song.ID}}); err != nil {
		return classifySubsonic(err)
	}

	return nil
}

// Unlove unstars a track on the server
func (s *Subsonic) Unlove(_ context.Context, track model.LovedTrack) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}

	id := track.ID
	if id == "" {
		song, err := s.findSong(client, track)
		if err != nil {
			return err
		}
		if song == nil {
			slog.Warn("Song not found", "artist", track.Artist, "title", track.Track, "destination", "subsonic")
			return nil
		}
		id = song.ID
	}

	if err := client.Unstar(subsonic.StarParameters{SongIDs: []string{id}}); err != nil {
		return classifySubsonic(err)
	}

	return nil
}

// LovedTracks returns a page of the user's starred songs. The server returns
// every starred song at once, so paging happens here.
func (s *Subsonic) LovedTracks(_ context.Context, page, limit int) ([]model.LovedTrack, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	starred, err := client.GetStarred2(nil)
	if err != nil {
		return nil, classifySubsonic(err)
	}
	if starred == nil {
		return nil, nil
	}

	start := (page - 1) * limit
	if start < 0 || start >= len(starred.Song) {
		return nil, nil
	}
	end := min(start+limit, len(starred.Song))

	return childrenToLovedTracks(starred.Song[start:end]), nil
}

// getClient lazily connects to the Subsonic server
func (s *Subsonic) getClient() (*subsonic.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	httpClient := s.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client := &subsonic.Client{
		Client:     httpClient,
		BaseUrl:    s.BaseURL,
		User:       s.Username,
		ClientName: s.ClientName,
	}

	if err := client.Authenticate(s.Password); err != nil {
		return nil, fmt.Errorf("Subsonic login failed: %w", classifySubsonic(err))
	}

	s.client = client
	return s.client, nil
}

// findSong searches the library for the song that best matches target
func (s *Subsonic) findSong(client *subsonic.Client, target model.LovedTrack) (*subsonic.Child, error) {
	results, err := client.Search3(target.Artist+" "+target.Track, map[string]string{
		"songCount":   strconv.Itoa(subsonicSearchSize),
		"artistCount": "0",
		"albumCount":  "0",
	})
	if err != nil {
		return nil, classifySubsonic(err)
	}
	if results == nil {
		return nil, nil
	}

	index, score := matcher.Find(childrenToLovedTracks(results.Song), target)
	if index == -1 {
		return nil, nil
	}

	slog.Debug("Matched song", "artist", target.Artist, "title", target.Track, "id", results.Song[index].ID, "score", score, "destination", "subsonic")
	return results.Song[index], nil
}

// classifySubsonic wraps err with the model error that best describes it.
// The library only reports server errors as "Error #<code>: <message>" strings.
func classifySubsonic(err error) error {
	if errors.Is(err, subsonic.ErrAuthenticationFailure) {
		return fmt.Errorf("%w: %w", model.ErrAuth, err)
	}

	if isNetworkError(err) {
		return fmt.Errorf("%w: %w", model.ErrNetwork, err)
	}

	var code int
	// 40-44 are bad credentials or unsupported auth schemes, 50 is a missing permission
	if _, scanErr := fmt.Sscanf(err.Error(), "Error #%d:", &code); scanErr == nil && code >= 40 && code <= 50 {
		return fmt.Errorf("%w: %w", model.ErrAuth, err)
	}

	return fmt.Errorf("%w: %w", model.ErrAPI, err)
}

func childrenToLovedTracks(songs []*subsonic.Child) []model.LovedTrack {
	tracks := make([]model.LovedTrack, 0, len(songs))
	for _, song := range songs {
		tracks = append(tracks, model.LovedTrack{
			ID:        song.ID,
			Track:     song.Title,
			Artist:    song.Artist,
			Album:     song.Album,
			TrackMBID: song.MusicBrainzID,
		})
	}
	return tracks
}

var _ model.Destination = &Subsonic{}
