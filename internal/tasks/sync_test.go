package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/services"
	tu "github.com/desertthunder/hottest100/internal/testing"
)

type memRecorder struct {
	results []*PlaylistResult
}

func (m *memRecorder) RecordPlaylist(_ context.Context, r *PlaylistResult) {
	m.results = append(m.results, r)
}

func newSync(remote services.Service, sleeper *tu.NoSleep, opts ...SyncOption) *Synchronizer {
	inv := services.NewInvoker(services.RetryPolicy{}, nil).WithSleep(sleeper.Sleep)
	return NewSynchronizer(remote, inv, nil, opts...)
}

func TestSynchronizer(t *testing.T) {
	t.Run("call order and insertion order", func(t *testing.T) {
		remote := tu.NewMockService(map[string]string{
			"track:low artist:Artist low":   "spotify:track:low",
			"track:high artist:Artist high": "spotify:track:high",
			"track:mid artist:Artist mid":   "spotify:track:mid",
		})
		rec := &memRecorder{}
		s := newSync(remote, &tu.NoSleep{}, WithRecorder(rec))

		group := models.PlaylistGroup{Name: "Triple J Top 100 2001", Songs: []models.Song{
			song("low", 1, "2001", false),
			song("high", 100, "2001", false),
			song("mid", 50, "2001", false),
		}}

		result, err := s.Sync(context.Background(), group, 1, 1, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		calls := remote.Calls()
		wantMethods := []string{
			tu.MethodCurrentUser,
			tu.MethodCreatePlaylist,
			tu.MethodSearchTracks, tu.MethodSearchTracks, tu.MethodSearchTracks,
			tu.MethodAddItems,
		}
		if len(calls) != len(wantMethods) {
			t.Fatalf("expected %d calls, got %d: %+v", len(wantMethods), len(calls), calls)
		}
		for i, m := range wantMethods {
			if calls[i].Method != m {
				t.Errorf("call %d: expected %s, got %s", i, m, calls[i].Method)
			}
		}

		create := calls[1].Args
		if create[0] != "test-user" || create[1] != group.Name || create[2] != "Playlist for Triple J Top 100 2001" {
			t.Errorf("unexpected create args: %v", create)
		}

		if calls[2].Args[0] != "track:high artist:Artist high" || calls[2].Args[1] != "1" {
			t.Errorf("expected highest position searched first with limit 1, got %v", calls[2].Args)
		}

		added := calls[5].URIs
		want := []string{"spotify:track:high", "spotify:track:mid", "spotify:track:low"}
		for i := range want {
			if added[i] != want[i] {
				t.Errorf("uri %d: expected %s, got %s", i, want[i], added[i])
			}
		}
		if calls[5].Args[0] != result.Playlist.ID {
			t.Errorf("items added to %s, expected %s", calls[5].Args[0], result.Playlist.ID)
		}

		if len(rec.results) != 1 || rec.results[0] != result {
			t.Errorf("expected result to be recorded once")
		}
	})

	t.Run("misses are skipped", func(t *testing.T) {
		remote := tu.NewMockService(map[string]string{
			"track:Buy Me a Pony artist:Spiderbait": "spotify:track:pony",
		})
		s := newSync(remote, &tu.NoSleep{})
		progress := make(chan ProgressUpdate, 64)

		group := models.PlaylistGroup{Name: "Triple J Top 100 1996", Songs: []models.Song{
			{Track: "Buy Me a Pony", Artist: "Spiderbait", Position: 1, PollYear: "1996"},
			{Track: "Nowhere", Artist: "Nobody", Position: 2, PollYear: "1996"},
		}}

		result, err := s.Sync(context.Background(), group, 1, 1, progress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.URIs) != 1 || result.URIs[0] != "spotify:track:pony" {
			t.Errorf("unexpected uris: %v", result.URIs)
		}
		missing := result.Missing()
		if len(missing) != 1 || missing[0].Track != "Nowhere" {
			t.Errorf("unexpected missing: %+v", missing)
		}

		close(progress)
		sawMissing := false
		for u := range progress {
			if u.Phase == TrackMissing && u.Message == "Song not found: Nowhere by Nobody" {
				sawMissing = true
			}
		}
		if !sawMissing {
			t.Error("expected a track_missing progress update")
		}
	})

	t.Run("no matches creates an empty playlist", func(t *testing.T) {
		remote := tu.NewMockService(nil)
		s := newSync(remote, &tu.NoSleep{})

		result, err := s.Sync(context.Background(), models.PlaylistGroup{Name: "x", Songs: []models.Song{song("a", 1, "2000", false)}}, 1, 1, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(remote.CallsTo(tu.MethodCreatePlaylist)) != 1 {
			t.Error("expected playlist to be created")
		}
		if len(remote.CallsTo(tu.MethodAddItems)) != 0 || result.Batches != 0 {
			t.Error("expected no add-items calls")
		}
	})

	t.Run("batches of 100", func(t *testing.T) {
		catalog := map[string]string{}
		var songs []models.Song
		for i := 1; i <= 250; i++ {
			s := song(fmt.Sprint(i), i, "2010", false)
			catalog[s.SearchQuery()] = fmt.Sprintf("spotify:track:%d", i)
			songs = append(songs, s)
		}
		remote := tu.NewMockService(catalog)
		s := newSync(remote, &tu.NoSleep{})

		result, err := s.Sync(context.Background(), models.PlaylistGroup{Name: "big", Songs: songs}, 1, 1, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		adds := remote.CallsTo(tu.MethodAddItems)
		if len(adds) != 3 || result.Batches != 3 {
			t.Fatalf("expected 3 batches, got %d", len(adds))
		}
		sizes := []int{100, 100, 50}
		for i, a := range adds {
			if len(a.URIs) != sizes[i] {
				t.Errorf("batch %d: expected %d uris, got %d", i, sizes[i], len(a.URIs))
			}
		}
		if adds[0].URIs[0] != "spotify:track:250" || adds[2].URIs[49] != "spotify:track:1" {
			t.Errorf("batches not in descending order: first %s last %s", adds[0].URIs[0], adds[2].URIs[49])
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		catalog := map[string]string{}
		var songs []models.Song
		for i := 1; i <= 5; i++ {
			s := song(fmt.Sprint(i), i, "2010", false)
			catalog[s.SearchQuery()] = fmt.Sprintf("spotify:track:%d", i)
			songs = append(songs, s)
		}
		remote := tu.NewMockService(catalog)
		s := newSync(remote, &tu.NoSleep{}, WithChunkSize(2))

		if _, err := s.Sync(context.Background(), models.PlaylistGroup{Name: "small", Songs: songs}, 1, 1, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := len(remote.CallsTo(tu.MethodAddItems)); n != 3 {
			t.Errorf("expected 3 batches, got %d", n)
		}
	})

	t.Run("rate limited calls are retried", func(t *testing.T) {
		remote := tu.NewMockService(map[string]string{"track:a artist:Artist a": "spotify:track:a"})
		remote.Throttle[tu.MethodSearchTracks] = 2
		remote.Throttle[tu.MethodAddItems] = 1
		remote.RetryAfter = 3 * time.Second
		sleeper := &tu.NoSleep{}
		s := newSync(remote, sleeper)

		result, err := s.Sync(context.Background(), models.PlaylistGroup{Name: "x", Songs: []models.Song{song("a", 1, "2000", false)}}, 1, 1, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.URIs) != 1 {
			t.Errorf("expected the track to resolve after retries, got %v", result.URIs)
		}
		if len(sleeper.Slept) != 3 {
			t.Errorf("expected 3 waits, got %v", sleeper.Slept)
		}
		for _, d := range sleeper.Slept {
			if d != 3*time.Second {
				t.Errorf("expected 3s wait, got %v", d)
			}
		}
		if n := len(remote.CallsTo(tu.MethodSearchTracks)); n != 3 {
			t.Errorf("expected 3 search attempts, got %d", n)
		}
	})

	errBoom := errors.New("boom")
	failures := []struct {
		method      string
		wantCreated bool
		wantAdds    int
	}{
		{method: tu.MethodCurrentUser},
		{method: tu.MethodCreatePlaylist},
		{method: tu.MethodSearchTracks, wantCreated: true},
		{method: tu.MethodAddItems, wantCreated: true, wantAdds: 1},
	}

	for _, f := range failures {
		t.Run("failure in "+f.method, func(t *testing.T) {
			remote := tu.NewMockService(map[string]string{"track:a artist:Artist a": "spotify:track:a"})
			remote.Errors[f.method] = errBoom
			rec := &memRecorder{}
			s := newSync(remote, &tu.NoSleep{}, WithRecorder(rec))

			result, err := s.Sync(context.Background(), models.PlaylistGroup{Name: "x", Songs: []models.Song{song("a", 1, "2000", false)}}, 1, 1, nil)
			if !errors.Is(err, errBoom) {
				t.Fatalf("expected boom, got %v", err)
			}
			if created := result.Playlist != nil; created != f.wantCreated {
				t.Errorf("playlist created = %v, want %v", created, f.wantCreated)
			}
			if n := len(remote.CallsTo(tu.MethodAddItems)); n != f.wantAdds {
				t.Errorf("expected %d add attempts, got %d", f.wantAdds, n)
			}
			if recorded := len(rec.results) == 1; recorded != f.wantCreated {
				t.Errorf("recorded = %v, want %v", recorded, f.wantCreated)
			}
		})
	}
}
