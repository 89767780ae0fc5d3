package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csmith/envflag/v2"
	"github.com/csmith/slogflags"
	"github.com/csmith/spotilove/model"
	"github.com/csmith/spotilove/pause"
	"github.com/csmith/spotilove/songlog"
	"github.com/csmith/spotilove/sources"
	"github.com/csmith/spotilove/transfer"
)

var (
	spotifyClientID     = flag.String("spotify-client-id", "", "Spotify application client ID")
	spotifyClientSecret = flag.String("spotify-client-secret", "", "Spotify application client secret")
	spotifyRedirectURI  = flag.String("spotify-redirect-uri", "http://localhost:8888/callback", "Redirect URI registered for the Spotify application")
	spotifyTokenCache   = flag.String("spotify-token-cache", ".spotify_token.json", "File to keep the Spotify token in between runs. Empty to disable.")

	lastfmKey      = flag.String("lastfm-api-key", "", "Last.fm API key")
	lastfmSecret   = flag.String("lastfm-api-secret", "", "Last.fm API secret")
	lastfmUsername = flag.String("lastfm-username", "", "Last.fm username")
	lastfmPassword = flag.String("lastfm-password", "", "Last.fm password")

	subsonicServer   = flag.String("subsonic-server", "", "Subsonic server base address")
	subsonicUsername = flag.String("subsonic-username", "", "Subsonic username")
	subsonicPassword = flag.String("subsonic-password", "", "Subsonic password")

	destination = flag.String("destination", destinationLastfm, "Where to love tracks: lastfm or subsonic")
	deleteAll   = flag.Bool("delete-all", false, "Unlove every loved track on the destination instead of transferring")
	limit       = flag.Int("limit", 0, "Maximum number of liked songs to transfer, most recent first. Zero for no limit.")
	logFile     = flag.String("log-file", "loved_songs.log", "File recording songs that have already been loved")
	policy      = flag.String("policy", "skip", "What to do on reaching a song that's already in the log: skip it, or stop the run")
	dryRun      = flag.Bool("dry-run", false, "Don't actually do anything, just print what would be loved or unloved")
	retries     = flag.Int("retries", 0, "Number of times to retry a request that failed because of network errors or rate limiting")
	period      = flag.Duration("period", 0, "Length of time between each transfer. If zero, will transfer once and exit.")
)

func main() {
	envflag.Parse()
	_ = slogflags.Logger(slogflags.WithSetDefault(true))

	config, err := configFromFlags()
	if err == nil {
		err = config.Validate()
	}
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gate := &pause.Gate{}
	gate.ListenTerminal(ctx)

	err = run(ctx, config, gate)
	if err != nil && ctx.Err() != nil {
		fmt.Println("Interrupted, exiting")
		return
	} else if errors.Is(err, model.ErrAuth) {
		slog.Error("Authentication failed", "error", err)
		stop()
		os.Exit(1)
	} else if err != nil {
		slog.Error("Run failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func configFromFlags() (*Config, error) {
	p, err := transfer.ParsePolicy(*policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrConfig, err)
	}

	return &Config{
		DeleteAll:   *deleteAll,
		DryRun:      *dryRun,
		Limit:       *limit,
		LogFile:     *logFile,
		Policy:      p,
		Retries:     *retries,
		Period:      *period,
		Destination: *destination,
		Spotify: SpotifyConfig{
			ClientID:     *spotifyClientID,
			ClientSecret: *spotifyClientSecret,
			RedirectURI:  *spotifyRedirectURI,
			TokenCache:   *spotifyTokenCache,
		},
		Lastfm: LastfmConfig{
			APIKey:    *lastfmKey,
			APISecret: *lastfmSecret,
			Username:  *lastfmUsername,
			Password:  *lastfmPassword,
		},
		Subsonic: SubsonicConfig{
			Server:   *subsonicServer,
			Username: *subsonicUsername,
			Password: *subsonicPassword,
		},
	}, nil
}

type connectedDestination interface {
	model.Destination
	Connect(ctx context.Context) error
}

func newDestination(config *Config) connectedDestination {
	if config.Destination == destinationSubsonic {
		return &sources.Subsonic{
			BaseURL:    config.Subsonic.Server,
			Username:   config.Subsonic.Username,
			Password:   config.Subsonic.Password,
			ClientName: "spotilove",
		}
	}

	return &sources.Lastfm{
		APIKey:   config.Lastfm.APIKey,
		Secret:   config.Lastfm.APISecret,
		Username: config.Lastfm.Username,
		Password: config.Lastfm.Password,
	}
}

func run(ctx context.Context, config *Config, gate *pause.Gate) error {
	opts := transfer.Options{
		Limit:   config.Limit,
		Policy:  config.Policy,
		DryRun:  config.DryRun,
		Pause:   gate,
		Retries: config.Retries,
	}

	dest := newDestination(config)

	if config.DeleteAll {
		if err := dest.Connect(ctx); err != nil {
			return err
		}
		return unloveAll(ctx, config, dest, opts)
	}

	log, err := songlog.Load(config.LogFile)
	if err != nil {
		return err
	}
	slog.Debug("Loaded loved songs log", "path", log.Path(), "count", log.Len())

	if err := dest.Connect(ctx); err != nil {
		return err
	}

	lib := &sources.Spotify{
		ClientID:     config.Spotify.ClientID,
		ClientSecret: config.Spotify.ClientSecret,
		RedirectURI:  config.Spotify.RedirectURI,
		TokenCache:   config.Spotify.TokenCache,
		OpenBrowser:  sources.OpenBrowser,
	}
	if err := lib.Connect(ctx); err != nil {
		return err
	}

	if config.Period.Minutes() < 1 {
		slog.Debug("Period is less than 1 minute, doing a one-shot run")
		return transferOnce(ctx, config, lib, dest, log, opts)
	}

	for {
		if err := transferOnce(ctx, config, lib, dest, log, opts); err != nil {
			return err
		}

		slog.Info("Sleeping until next transfer", "period", config.Period)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(config.Period):
		}
	}
}

func transferOnce(ctx context.Context, config *Config, lib model.Library, dest model.Destination, log *songlog.Log, opts transfer.Options) error {
	res, err := transfer.Transfer(ctx, lib, dest, log, opts)
	if err != nil {
		slog.Info("Transfer aborted", "transferred", res.Transferred, "skipped", res.Skipped)
		return err
	}

	switch {
	case res.StoppedAtLogged:
		fmt.Printf("Stopped because it encountered an already logged liked song, after loving %d songs on %s.\n", res.Transferred, config.DestinationName())
	case config.DryRun:
		fmt.Printf("Would have loved %d liked songs on %s (%d already loved).\n", res.Transferred, config.DestinationName(), res.Skipped)
	default:
		fmt.Printf("Done loving %d liked songs on %s! (%d already loved)\n", res.Transferred, config.DestinationName(), res.Skipped)
	}

	return nil
}

func unloveAll(ctx context.Context, config *Config, dest model.Destination, opts transfer.Options) error {
	res, err := transfer.UnloveAll(ctx, dest, opts)
	if err != nil {
		slog.Info("Unloving aborted", "deleted", res.Deleted)
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have unloved %d songs on %s.\n", res.Deleted, config.DestinationName())
	} else {
		fmt.Printf("Done unloving %d songs on %s!\n", res.Deleted, config.DestinationName())
	}
	return nil
}
