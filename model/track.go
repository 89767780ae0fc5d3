package model

import "fmt"

// LikedItem is a track the user has liked on the source service
type LikedItem struct {
	Artist string
	Track  string
	Album  string
	ID     string
}

// SongIdentifier returns the key used to record the item in the loved songs log
func SongIdentifier(item LikedItem) string {
	return fmt.Sprintf("%s - %s - %s", item.Artist, item.Track, item.ID)
}

// LovedTrack represents a loved/starred track on a destination
type LovedTrack struct {
	// ID is a destination specific handle, if the destination has one
	ID         string
	Track      string
	Artist     string
	Album      string
	TrackMBID  string
	ArtistMBID string
}
