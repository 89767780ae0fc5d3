package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/csmith/spotilove/model"
)

// UnloveResult summarises a bulk unlove run
type UnloveResult struct {
	Deleted int
}

// UnloveAll removes every loved track from dest, a batch at a time. A batch
// shorter than PageSize is taken to be the last one.
func UnloveAll(ctx context.Context, dest model.Destination, opts Options) (UnloveResult, error) {
	var res UnloveResult
	page := 1

	for {
		var batch []model.LovedTrack
		err := withRetry(ctx, opts, "list loved tracks", func() error {
			var err error
			batch, err = dest.LovedTracks(ctx, page, PageSize)
			return err
		})
		if err != nil {
			return res, fmt.Errorf("failed to list loved tracks: %w", err)
		}

		slog.Debug("Retrieved batch of loved tracks", "page", page, "count", len(batch))

		if len(batch) == 0 {
			return res, nil
		}

		for _, track := range batch {
			if err := opts.waitWhilePaused(ctx); err != nil {
				return res, err
			}

			if opts.DryRun {
				slog.Info("Would unlove", "artist", track.Artist, "title", track.Track)
			} else {
				slog.Info("Unloving", "artist", track.Artist, "title", track.Track)

				err := withRetry(ctx, opts, "unlove", func() error {
					return dest.Unlove(ctx, track)
				})
				if err != nil {
					return res, fmt.Errorf("failed to unlove %s by %s: %w", track.Track, track.Artist, err)
				}
			}

			res.Deleted++
		}

		if len(batch) < PageSize {
			return res, nil
		}

		// Unloved tracks drop off the list, so the first page keeps changing.
		// A dry run removes nothing and has to page through instead.
		if opts.DryRun {
			page++
		}
	}
}
