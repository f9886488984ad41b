package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magangpulse-engine/internal/domain"
)

const detailFixture = `
<div class="v-row">
  <div><label>Program Studi</label>
    <div class="flex-wrap">
      <span class="v-chip__content">Teknik Informatika</span>
    </div>
  </div>
</div>
<div class="v-row">
  <label>Deskripsi</label>
  <div class="text-body-1"><p>Magang enam bulan.</p></div>
</div>`

type fakeFetcher struct {
	mu     sync.Mutex
	calls  []string
	failOn string
}

func (f *fakeFetcher) FetchDetail(_ context.Context, url string) (domain.PageSnapshot, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if url == f.failOn {
		return domain.PageSnapshot{}, errors.New("boom")
	}
	return domain.PageSnapshot{HTML: detailFixture}, nil
}

func mkRecords(n int) []domain.Listing {
	out := make([]domain.Listing, n)
	for i := range out {
		out[i].SourceURL = fmt.Sprintf("https://example.local/lowongan/view/%d", i)
		out[i].Title = fmt.Sprintf("Listing %d", i)
	}
	return out
}

func TestRunEnrichesWithinLimit(t *testing.T) {
	f := &fakeFetcher{}
	recs := mkRecords(5)

	Run(context.Background(), f, recs, 3, 2)

	for i := 0; i < 3; i++ {
		assert.Equal(t, "Teknik Informatika", recs[i].Sector, "index %d", i)
		assert.Equal(t, "Magang enam bulan.", recs[i].ShortDescription, "index %d", i)
	}
	for i := 3; i < 5; i++ {
		assert.Empty(t, recs[i].Sector, "index %d", i)
		assert.Empty(t, recs[i].ShortDescription, "index %d", i)
	}
	assert.Len(t, f.calls, 3)
}

func TestRunOneFailureDoesNotAbortBatch(t *testing.T) {
	recs := mkRecords(4)
	f := &fakeFetcher{failOn: recs[1].SourceURL}

	Run(context.Background(), f, recs, len(recs), 3)

	require.Len(t, f.calls, 4)
	assert.Empty(t, recs[1].Sector)
	assert.Empty(t, recs[1].ShortDescription)
	for _, i := range []int{0, 2, 3} {
		assert.Equal(t, "Teknik Informatika", recs[i].Sector, "index %d", i)
	}
}

func TestRunPreservesOrderAndIdentity(t *testing.T) {
	f := &fakeFetcher{}
	recs := mkRecords(6)

	Run(context.Background(), f, recs, len(recs), 4)

	for i := range recs {
		assert.Equal(t, fmt.Sprintf("Listing %d", i), recs[i].Title, "index %d", i)
	}
}

func TestRunSkipsEmptySourceURL(t *testing.T) {
	f := &fakeFetcher{}
	recs := mkRecords(2)
	recs[0].SourceURL = ""

	Run(context.Background(), f, recs, len(recs), 1)

	assert.Len(t, f.calls, 1)
	assert.Empty(t, recs[0].Sector)
	assert.Equal(t, "Teknik Informatika", recs[1].Sector)
}

func TestRunDegenerateInputs(t *testing.T) {
	f := &fakeFetcher{}

	Run(context.Background(), f, nil, 10, 2)
	assert.Empty(t, f.calls)

	recs := mkRecords(2)
	Run(context.Background(), f, recs, 0, 2)
	assert.Empty(t, f.calls)

	// workers < 1 gets clamped, not deadlocked
	Run(context.Background(), f, recs, 2, 0)
	assert.Len(t, f.calls, 2)
}
