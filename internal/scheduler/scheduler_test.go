package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbaroster/backend/internal/cache"
	"nbaroster/backend/internal/client"
	"nbaroster/backend/internal/ingest"
)

// newBlockedSyncer returns a syncer whose run blocks until release is closed,
// then fails at the fetch stage so it never touches a database.
func newBlockedSyncer(t *testing.T, release <-chan struct{}) *ingest.Syncer {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	providerClient := client.NewClient(server.URL, "", 10*time.Second, time.Millisecond)
	appCache := cache.New(cache.Config{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { appCache.Close() })

	return ingest.NewSyncer(nil, appCache, providerClient, []string{"2024-25"})
}

func TestRunNowSingleFlight(t *testing.T) {
	release := make(chan struct{})
	s := NewScheduler(newBlockedSyncer(t, release), "0 5 * * *")

	first := make(chan bool)
	go func() {
		first <- s.RunNow(context.Background())
	}()

	// Wait until the first run is actually in flight.
	require.Eventually(t, func() bool {
		return s.running.Load()
	}, 2*time.Second, 5*time.Millisecond)

	assert.False(t, s.RunNow(context.Background()), "Overlapping trigger must be dropped")

	close(release)
	assert.True(t, <-first, "Blocked run still counts as started")

	// With the first run finished, the next trigger goes through again.
	assert.True(t, s.RunNow(context.Background()))
}

func TestStartRejectsInvalidCronSpec(t *testing.T) {
	release := make(chan struct{})
	close(release)
	s := NewScheduler(newBlockedSyncer(t, release), "not a cron spec")

	err := s.Start(context.Background())
	assert.Error(t, err)
}

func TestStartAndStop(t *testing.T) {
	release := make(chan struct{})
	close(release)
	s := NewScheduler(newBlockedSyncer(t, release), "0 5 * * *")

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
