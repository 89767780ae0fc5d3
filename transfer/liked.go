package transfer

import (
	"context"
	"iter"
	"log/slog"

	"github.com/csmith/spotilove/model"
)

// Liked returns the library's liked tracks in the order the library provides
// them, fetching a page at a time starting at offset 0. Removed entries are
// skipped. A listing error is yielded once and ends the sequence.
func Liked(ctx context.Context, lib model.Library, opts Options) iter.Seq2[model.LikedItem, error] {
	return func(yield func(model.LikedItem, error) bool) {
		offset := 0

		for {
			var page []*model.LikedItem
			err := withRetry(ctx, opts, "list liked tracks", func() error {
				var err error
				page, err = lib.LikedTracks(ctx, PageSize, offset)
				return err
			})
			if err != nil {
				yield(model.LikedItem{}, err)
				return
			}

			slog.Debug("Retrieved page of liked tracks", "offset", offset, "count", len(page))

			if len(page) == 0 {
				return
			}

			for i, item := range page {
				if item == nil {
					slog.Warn("Skipping removed or unavailable track", "position", offset+i)
					continue
				}

				if !yield(*item, nil) {
					return
				}
			}

			offset += PageSize
		}
	}
}
