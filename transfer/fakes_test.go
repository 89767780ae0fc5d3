package transfer

import (
	"context"
	"fmt"

	"github.com/csmith/spotilove/model"
)

type fakeLibrary struct {
	items   []*model.LikedItem
	offsets []int
	// errs are returned, in order, before any page is served
	errs []error
}

func (f *fakeLibrary) LikedTracks(_ context.Context, limit, offset int) ([]*model.LikedItem, error) {
	f.offsets = append(f.offsets, offset)

	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}

	if offset >= len(f.items) {
		return nil, nil
	}
	end := min(offset+limit, len(f.items))
	return f.items[offset:end], nil
}

func likedItems(n int) []*model.LikedItem {
	items := make([]*model.LikedItem, n)
	for i := range items {
		items[i] = &model.LikedItem{
			Artist: fmt.Sprintf("Artist %d", i),
			Track:  fmt.Sprintf("Track %d", i),
			ID:     fmt.Sprintf("id%d", i),
		}
	}
	return items
}

type fakeDestination struct {
	loved     []model.LovedTrack
	loveCalls []string
	unloved   []model.LovedTrack
	pages     []int
	loveErr   error
	unloveErr error
	listErr   error
}

func (f *fakeDestination) Love(_ context.Context, artist, title string) error {
	f.loveCalls = append(f.loveCalls, artist+" - "+title)
	return f.loveErr
}

func (f *fakeDestination) Unlove(_ context.Context, track model.LovedTrack) error {
	if f.unloveErr != nil {
		return f.unloveErr
	}
	f.unloved = append(f.unloved, track)
	for i := range f.loved {
		if f.loved[i] == track {
			f.loved = append(f.loved[:i], f.loved[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeDestination) LovedTracks(_ context.Context, page, limit int) ([]model.LovedTrack, error) {
	f.pages = append(f.pages, page)
	if f.listErr != nil {
		return nil, f.listErr
	}

	start := (page - 1) * limit
	if start >= len(f.loved) {
		return nil, nil
	}
	end := min(start+limit, len(f.loved))
	return append([]model.LovedTrack(nil), f.loved[start:end]...), nil
}

func lovedTracks(n int) []model.LovedTrack {
	tracks := make([]model.LovedTrack, n)
	for i := range tracks {
		tracks[i] = model.LovedTrack{
			Artist: fmt.Sprintf("Artist %d", i),
			Track:  fmt.Sprintf("Track %d", i),
		}
	}
	return tracks
}

type memLog struct {
	songs   map[string]bool
	lines   []string
	failErr error
}

func newMemLog(ids ...string) *memLog {
	l := &memLog{songs: make(map[string]bool)}
	for _, id := range ids {
		l.songs[id] = true
	}
	return l
}

func (m *memLog) Contains(id string) bool {
	return m.songs[id]
}

func (m *memLog) Append(id string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.songs[id] = true
	m.lines = append(m.lines, id)
	return nil
}

// countingPauser reports paused for the first n calls
type countingPauser struct {
	n     int
	calls int
}

func (c *countingPauser) Paused() bool {
	c.calls++
	return c.calls <= c.n
}

type alwaysPaused struct{}

func (alwaysPaused) Paused() bool { return true }

type albumDestination struct {
	fakeDestination
	albumCalls []string
}

func (a *albumDestination) LoveOnAlbum(_ context.Context, artist, title, album string) error {
	a.albumCalls = append(a.albumCalls, artist+" - "+title+" - "+album)
	return a.loveErr
}
