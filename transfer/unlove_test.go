package transfer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/csmith/spotilove/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnloveAll(t *testing.T) {
	tests := []struct {
		name  string
		loved int
		pages int
	}{
		{name: "empty account", loved: 0, pages: 1},
		{name: "short batch", loved: 20, pages: 1},
		{name: "one full batch", loved: 50, pages: 2},
		{name: "multiple of batch size", loved: 150, pages: 4},
		{name: "partial last batch", loved: 130, pages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := &fakeDestination{loved: lovedTracks(tt.loved)}

			res, err := UnloveAll(context.Background(), dest, Options{})
			require.NoError(t, err)

			assert.Equal(t, tt.loved, res.Deleted)
			assert.Len(t, dest.unloved, tt.loved)
			assert.Empty(t, dest.loved)
			assert.Len(t, dest.pages, tt.pages)
			for _, page := range dest.pages {
				assert.Equal(t, 1, page)
			}
		})
	}
}

func TestUnloveAll_dryRunPagesThrough(t *testing.T) {
	dest := &fakeDestination{loved: lovedTracks(120)}

	res, err := UnloveAll(context.Background(), dest, Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 120, res.Deleted)
	assert.Empty(t, dest.unloved)
	assert.Len(t, dest.loved, 120)
	assert.Equal(t, []int{1, 2, 3}, dest.pages)
}

func TestUnloveAll_unloveErrorAborts(t *testing.T) {
	dest := &fakeDestination{
		loved:     lovedTracks(10),
		unloveErr: fmt.Errorf("%w: invalid session", model.ErrAuth),
	}

	res, err := UnloveAll(context.Background(), dest, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAuth)
	assert.Equal(t, 0, res.Deleted)
}

func TestUnloveAll_listErrorAborts(t *testing.T) {
	dest := &fakeDestination{listErr: fmt.Errorf("%w: dial tcp", model.ErrNetwork)}

	_, err := UnloveAll(context.Background(), dest, Options{Retries: 1, RetryDelay: time.Millisecond})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNetwork)
	assert.Equal(t, []int{1, 1}, dest.pages)
}

func TestUnloveAll_waitsWhilePaused(t *testing.T) {
	dest := &fakeDestination{loved: lovedTracks(3)}
	pauser := &countingPauser{n: 2}

	res, err := UnloveAll(context.Background(), dest, Options{Pause: pauser, PollInterval: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Deleted)
}
