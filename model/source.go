package model

import "context"

// Library is a music service that provides the user's liked tracks, most recently liked first
type Library interface {
	// LikedTracks returns a single page of liked tracks. Removed or unavailable
	// catalog entries are returned as nil. An empty page marks the end of the library.
	LikedTracks(ctx context.Context, limit, offset int) ([]*LikedItem, error)
}

// Destination is a music service that tracks can be loved on
type Destination interface {
	Love(ctx context.Context, artist, title string) error
	Unlove(ctx context.Context, track LovedTrack) error
	// LovedTracks returns a page of loved tracks. Pages start at 1.
	LovedTracks(ctx context.Context, page, limit int) ([]LovedTrack, error)
}

// AlbumLover is implemented by destinations that can use the album to choose
// between several copies of the same track
type AlbumLover interface {
	LoveOnAlbum(ctx context.Context, artist, title, album string) error
}
