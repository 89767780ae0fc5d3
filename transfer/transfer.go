package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/csmith/spotilove/model"
)

// Log records which songs have already been transferred
type Log interface {
	Contains(id string) bool
	Append(id string) error
}

// TransferResult summarises a transfer run
type TransferResult struct {
	Transferred int
	Skipped     int
	// StoppedAtLogged is set if the run ended at an already logged track
	StoppedAtLogged bool
	// LimitReached is set if the run ended because Options.Limit was reached
	LimitReached bool
}

// Transfer loves each liked track from lib on dest, appending it to log once
// the love succeeded. Tracks already in the log are handled according to
// opts.Policy. The first error from the library, the destination or the log
// aborts the run; the result still reflects the work done up to that point.
func Transfer(ctx context.Context, lib model.Library, dest model.Destination, log Log, opts Options) (TransferResult, error) {
	var res TransferResult

	for item, err := range Liked(ctx, lib, opts) {
		if err != nil {
			return res, fmt.Errorf("failed to list liked tracks: %w", err)
		}

		if err := opts.waitWhilePaused(ctx); err != nil {
			return res, err
		}

		id := model.SongIdentifier(item)
		if log.Contains(id) {
			if opts.Policy == StopAtLogged {
				slog.Info("Encountered already loved song, stopping", "artist", item.Artist, "title", item.Track)
				res.StoppedAtLogged = true
				return res, nil
			}

			slog.Debug("Skipping already loved song", "artist", item.Artist, "title", item.Track)
			res.Skipped++
			continue
		}

		if opts.DryRun {
			slog.Info("Would love", "artist", item.Artist, "title", item.Track, "id", item.ID)
		} else {
			slog.Info("Loving", "artist", item.Artist, "title", item.Track, "id", item.ID)

			err := withRetry(ctx, opts, "love", func() error {
				return love(ctx, dest, item)
			})
			if err != nil {
				return res, fmt.Errorf("failed to love %s by %s: %w", item.Track, item.Artist, err)
			}

			if err := log.Append(id); err != nil {
				return res, err
			}
		}

		res.Transferred++

		if opts.Limit > 0 && res.Transferred >= opts.Limit {
			slog.Debug("Transfer limit reached", "limit", opts.Limit)
			res.LimitReached = true
			return res, nil
		}
	}

	return res, nil
}

// love passes the album along to destinations that can make use of it
func love(ctx context.Context, dest model.Destination, item model.LikedItem) error {
	if albumLover, ok := dest.(model.AlbumLover); ok && item.Album != "" {
		return albumLover.LoveOnAlbum(ctx, item.Artist, item.Track, item.Album)
	}
	return dest.Love(ctx, item.Artist, item.Track)
}
