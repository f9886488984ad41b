package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magangpulse-engine/internal/config"
)

func TestTargetPages(t *testing.T) {
	est := func(n int) *int { return &n }

	cases := []struct {
		name     string
		maxPages int
		estimate *int
		want     int
	}{
		{"no estimate keeps cap", 20, nil, 20},
		{"zero estimate keeps cap", 20, est(0), 20},
		{"estimate below cap wins", 20, est(45), 3}, // ceil(45/20)
		{"exact multiple", 20, est(40), 2},
		{"estimate above cap clamps", 5, est(10000), 5},
		{"single listing", 20, est(1), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, targetPages(c.maxPages, c.estimate))
		})
	}
}

func testDriver(timeoutSeconds int) *Driver {
	var cfg config.Config
	cfg.Scrape.UserAgent = "magangpulse-test/1.0"
	cfg.Scrape.RequestTimeoutSeconds = timeoutSeconds
	cfg.Scrape.ThrottleSeconds = 0 // no inter-request delay in tests
	return New(cfg)
}

func TestFetchPlain(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	d := testDriver(5)
	snap, err := d.fetchPlain(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", snap.HTML)
	assert.Equal(t, "magangpulse-test/1.0", gotUA)
}

func TestFetchPlainHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	d := testDriver(5)
	_, err := d.fetchPlain(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchSingleWithoutBrowserFallsBackToPlain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>static</html>"))
	}))
	defer srv.Close()

	// render requested but no browser session started
	d := testDriver(5)
	snap, err := d.FetchSingle(context.Background(), srv.URL, true)
	require.NoError(t, err)
	assert.Equal(t, "<html>static</html>", snap.HTML)
}
