package matcher

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/csmith/spotilove/model"
)

// Score represents the quality of a match between two tracks
type Score int

const (
	NoMatch    Score = 0
	FuzzyMatch Score = 1
	ExactMatch Score = 2
	AlbumMatch Score = 3
	TrackMBID  Score = 4
)

func (s Score) String() string {
	switch s {
	case NoMatch:
		return "none"
	case FuzzyMatch:
		return "fuzzy"
	case ExactMatch:
		return "exact"
	case AlbumMatch:
		return "album"
	case TrackMBID:
		return "mbid"
	default:
		return "unknown"
	}
}

const maxLevenshteinDistance = 3

// Words that mark the part of a title after " - " as a version rather than
// part of the name, e.g. "Song - 2011 Remaster".
var versionMarkers = []string{"remaster", "live", "edit", "version", "mono", "stereo", "mix", "acoustic", "demo", "bonus"}

// Match compares two LovedTracks and returns a score indicating match quality
func Match(a, b model.LovedTrack) Score {
	if a.TrackMBID != "" && b.TrackMBID != "" && a.TrackMBID == b.TrackMBID {
		return TrackMBID
	}

	if a.Artist == "" || b.Artist == "" || a.Track == "" || b.Track == "" {
		return NoMatch
	}

	if strings.EqualFold(a.Artist, b.Artist) && strings.EqualFold(a.Track, b.Track) {
		if a.Album != "" && strings.EqualFold(a.Album, b.Album) {
			return AlbumMatch
		}
		return ExactMatch
	}

	aKey := normalizeForMatching(a.Artist) + "|" + normalizeForMatching(a.Track)
	bKey := normalizeForMatching(b.Artist) + "|" + normalizeForMatching(b.Track)
	if levenshtein.ComputeDistance(aKey, bKey) <= maxLevenshteinDistance {
		return FuzzyMatch
	}

	return NoMatch
}

func normalizeForMatching(s string) string {
	s = strings.ToLower(s)

	// Spotify appends versions to titles: "Song - Remastered 2009"
	if idx := strings.LastIndex(s, " - "); idx != -1 && isVersion(s[idx+3:]) {
		s = s[:idx]
	}

	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}} {
		for {
			start := strings.Index(s, pair[0])
			if start == -1 {
				break
			}
			end := strings.Index(s[start:], pair[1])
			if end == -1 {
				break
			}
			s = s[:start] + s[start+end+1:]
		}
	}

	for _, sep := range []string{" feat.", " feat ", " ft.", " ft ", " featuring "} {
		if idx := strings.Index(s, sep); idx != -1 {
			s = s[:idx]
		}
	}

	s = strings.ReplaceAll(s, "&", "and")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimPrefix(s, "the ")

	return s
}

func isVersion(suffix string) bool {
	for _, marker := range versionMarkers {
		if strings.Contains(suffix, marker) {
			return true
		}
	}
	return false
}
