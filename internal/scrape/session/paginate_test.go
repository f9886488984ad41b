package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePages scripts a deterministic pagination run: advance moves to the
// next page when a click is allowed, stuck freezes the sentinel forever.
type fakePages struct {
	page       int
	totalPages int
	stuckAfter int // 0 disables; clicking past this page never changes content
	failFirst  bool
	clicks     int
}

func (f *fakePages) Content(ctx context.Context) (string, error) {
	if f.failFirst && f.page == 1 {
		return "", errors.New("render failed")
	}
	return fmt.Sprintf("<html>page %d</html>", f.page), nil
}

func (f *fakePages) FirstCardText(ctx context.Context) (string, error) {
	return fmt.Sprintf("card-of-page-%d", f.page), nil
}

func (f *fakePages) ClickNext(ctx context.Context, nextPage int) (bool, error) {
	f.clicks++
	if f.page >= f.totalPages {
		return false, nil
	}
	if f.stuckAfter > 0 && f.page >= f.stuckAfter {
		// Control exists and the click lands, but the page never changes.
		return true, nil
	}
	f.page = nextPage
	return true, nil
}

const (
	testPoll     = 5 * time.Millisecond
	testDeadline = 50 * time.Millisecond
	testSettle   = time.Millisecond
)

func TestCollectPagesAll(t *testing.T) {
	f := &fakePages{page: 1, totalPages: 3}
	pages, err := collectPages(context.Background(), f, 3, testPoll, testDeadline, testSettle)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, fmt.Sprintf("<html>page %d</html>", i+1), p.HTML)
	}
	// The last planned page never triggers a click.
	assert.Equal(t, 2, f.clicks)
}

func TestCollectPagesStopsWhenNextMissing(t *testing.T) {
	f := &fakePages{page: 1, totalPages: 2}
	pages, err := collectPages(context.Background(), f, 5, testPoll, testDeadline, testSettle)
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestCollectPagesStallTerminates(t *testing.T) {
	// Click succeeds but the sentinel never changes: the loop must give up
	// after the deadline instead of spinning.
	f := &fakePages{page: 1, totalPages: 10, stuckAfter: 2}

	start := time.Now()
	pages, err := collectPages(context.Background(), f, 10, testPoll, testDeadline, testSettle)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, pages, 2)
	assert.Less(t, elapsed, 10*testDeadline)
}

func TestCollectPagesFirstCaptureFails(t *testing.T) {
	f := &fakePages{page: 1, totalPages: 3, failFirst: true}
	pages, err := collectPages(context.Background(), f, 3, testPoll, testDeadline, testSettle)
	require.Error(t, err)
	assert.Nil(t, pages)
}

func TestCollectPagesZeroTarget(t *testing.T) {
	f := &fakePages{page: 1, totalPages: 3}
	pages, err := collectPages(context.Background(), f, 0, testPoll, testDeadline, testSettle)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestWaitSentinelChange(t *testing.T) {
	f := &fakePages{page: 2, totalPages: 5}
	assert.True(t, waitSentinelChange(context.Background(), f, "card-of-page-1", testPoll, testDeadline))
	assert.False(t, waitSentinelChange(context.Background(), f, "card-of-page-2", testPoll, testDeadline))
}
