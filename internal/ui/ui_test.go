package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/tasks"
)

func noopRun(ctx context.Context, _ chan<- tasks.ProgressUpdate) (*tasks.RunResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func sampleResult() *tasks.RunResult {
	found := models.Song{Track: "Riptide", Artist: "Vance Joy", Position: 1, PollYear: "2013"}
	lost := models.Song{Track: "Unknown", Artist: "Nobody", Position: 2, PollYear: "2013"}
	pr := &tasks.PlaylistResult{
		Group:    models.PlaylistGroup{Name: "Triple J Top 100 2013", Songs: []models.Song{lost, found}},
		Playlist: &models.Playlist{ID: "pl1", Name: "Triple J Top 100 2013"},
		Resolutions: []tasks.TrackResolution{
			{Song: lost},
			{Song: found, Track: &models.Track{URI: "spotify:track:1"}},
		},
		URIs:    []string{"spotify:track:1"},
		Batches: 1,
	}
	return &tasks.RunResult{Playlists: []*tasks.PlaylistResult{pr}}
}

func TestModel(t *testing.T) {
	t.Run("progress updates advance the bar", func(t *testing.T) {
		m := NewModel(context.Background(), noopRun)

		m.Update(progressUpdateMsg(tasks.ProgressUpdate{Phase: tasks.CreatePlaylist, Step: 2, Total: 4, Data: &models.Playlist{}}))
		m.Update(progressUpdateMsg(tasks.ProgressUpdate{Phase: tasks.SearchTracks, Step: 3, Total: 5}))

		want := (1 + 2.0/5.0) / 4
		if m.percent != want {
			t.Errorf("expected percent %v, got %v", want, m.percent)
		}
		if !strings.Contains(m.View(), "Playlist 2 of 4") {
			t.Errorf("expected status line in view, got:\n%s", m.View())
		}
	})

	t.Run("misses and completions are collected", func(t *testing.T) {
		m := NewModel(context.Background(), noopRun)
		song := models.Song{Track: "Unknown", Artist: "Nobody"}
		result := sampleResult().Playlists[0]

		m.Update(progressUpdateMsg(tasks.ProgressUpdate{Phase: tasks.TrackMissing, Data: song}))
		m.Update(progressUpdateMsg(tasks.ProgressUpdate{Phase: tasks.PlaylistComplete, Step: 1, Total: 1, Data: result}))

		if len(m.missing) != 1 || len(m.completed) != 1 {
			t.Fatalf("expected 1 miss and 1 completion, got %d and %d", len(m.missing), len(m.completed))
		}
		if !strings.Contains(m.View(), "Triple J Top 100 2013 (1/2 tracks)") {
			t.Errorf("expected completed playlist in view, got:\n%s", m.View())
		}
	})

	t.Run("completion shows summary", func(t *testing.T) {
		m := NewModel(context.Background(), noopRun)
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		m.Update(syncCompleteMsg(sampleResult(), nil))

		if m.view != ResultView {
			t.Fatalf("expected ResultView, got %v", m.view)
		}
		m.focusMisses = true
		view := m.View()
		for _, want := range []string{"Sync Complete", "Playlists created", "Tracks added", "Songs not found", "Unknown by Nobody"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in view, got:\n%s", want, view)
			}
		}

		result, err := m.Result()
		if err != nil || result == nil {
			t.Errorf("expected result without error, got %v, %v", result, err)
		}
	})

	t.Run("failure keeps partial result", func(t *testing.T) {
		m := NewModel(context.Background(), noopRun)
		m.Update(syncCompleteMsg(sampleResult(), errors.New("boom")))

		if !strings.Contains(m.View(), "Sync failed: boom") {
			t.Errorf("expected failure message, got:\n%s", m.View())
		}
		if len(m.completed) != 1 {
			t.Errorf("expected partial playlists to be kept, got %d", len(m.completed))
		}
	})

	t.Run("q cancels the run context", func(t *testing.T) {
		m := NewModel(context.Background(), noopRun)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

		if cmd != nil {
			t.Error("expected q to wait for the run instead of quitting")
		}
		if m.ctx.Err() == nil {
			t.Error("expected context to be cancelled")
		}
		if !m.cancelling {
			t.Error("expected cancelling state")
		}
	})

	t.Run("q quits from result view", func(t *testing.T) {
		m := NewModel(context.Background(), noopRun)
		m.Update(syncCompleteMsg(sampleResult(), nil))
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("? toggles full help in result view", func(t *testing.T) {
		m := NewModel(context.Background(), noopRun)
		m.Update(syncCompleteMsg(sampleResult(), nil))
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})

		if !m.help.ShowAll {
			t.Error("expected full help")
		}
		if !strings.Contains(m.View(), "abort") {
			t.Errorf("expected full help bindings in view, got:\n%s", m.View())
		}
	})

	t.Run("ctrl+c waits for the run to return", func(t *testing.T) {
		partial := sampleResult()
		returned := false
		run := func(ctx context.Context, _ chan<- tasks.ProgressUpdate) (*tasks.RunResult, error) {
			<-ctx.Done()
			returned = true
			return partial, ctx.Err()
		}
		m := NewModel(context.Background(), run)
		m.Init()

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}

		m.Stop()
		if !returned {
			t.Fatal("Stop returned before the run did")
		}
		result, err := m.Result()
		if result != partial {
			t.Errorf("expected the partial result, got %+v", result)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if m.view != ResultView {
			t.Error("expected ResultView after Stop")
		}
	})

	t.Run("Stop keeps an outcome already delivered", func(t *testing.T) {
		m := NewModel(context.Background(), func(context.Context, chan<- tasks.ProgressUpdate) (*tasks.RunResult, error) {
			return sampleResult(), nil
		})
		cmd := m.startSync()
		m.Update(cmd())

		m.Stop()
		if result, err := m.Result(); result == nil || err != nil {
			t.Errorf("unexpected outcome: %v, %v", result, err)
		}
	})

	t.Run("run goroutine reports through channels", func(t *testing.T) {
		run := func(_ context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.RunResult, error) {
			progress <- tasks.ProgressUpdate{Phase: tasks.Grouped, Data: []models.PlaylistGroup{{}, {}}}
			return sampleResult(), nil
		}
		m := NewModel(context.Background(), run)
		cmd := m.startSync()

		msg := cmd()
		m.Update(msg)
		if m.playlists != 2 {
			t.Errorf("expected 2 playlists from grouped update, got %d", m.playlists)
		}

		m.Update(m.waitForProgress()())
		if m.view != ResultView {
			t.Error("expected ResultView after channel closed")
		}
	})
}
