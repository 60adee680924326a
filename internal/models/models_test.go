package models

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestPlaylistName(t *testing.T) {
	tc := []struct {
		name string
		song Song
		want string
	}{
		{name: "annual", song: Song{PollYear: "1996"}, want: "Triple J Top 100 1996"},
		{name: "all-time", song: Song{PollYear: "1998", AllTime: true}, want: "Triple J Top 100 1998 All-Time"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.song.PlaylistName(); got != tt.want {
				t.Errorf("PlaylistName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchQuery(t *testing.T) {
	s := Song{Track: "Buy Me a Pony", Artist: "Spiderbait"}
	if got := s.SearchQuery(); got != "track:Buy Me a Pony artist:Spiderbait" {
		t.Errorf("SearchQuery() = %q", got)
	}
}

func TestDescription(t *testing.T) {
	g := PlaylistGroup{Name: "Triple J Top 100 1996"}
	if got := g.Description(); got != "Playlist for Triple J Top 100 1996" {
		t.Errorf("Description() = %q", got)
	}
}

func TestSongDecoding(t *testing.T) {
	t.Run("JSON strings and numbers", func(t *testing.T) {
		data := `{"id":"1","track":"Buy Me a Pony","artist":"Spiderbait","position":1,
			"pollyear":1996,"alltime":false,"country":"AU","releaseyear":1996}`

		var s Song
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ID != "1" || s.PollYear != "1996" || s.ReleaseYear != "1996" || s.Country != "AU" {
			t.Errorf("unexpected song: %+v", s)
		}
		if s.Position != 1 {
			t.Errorf("expected position 1, got %d", s.Position)
		}
	})

	t.Run("JSON null passthrough", func(t *testing.T) {
		var s Song
		if err := json.Unmarshal([]byte(`{"track":"x","country":null}`), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Country != "" {
			t.Errorf("expected empty country, got %q", s.Country)
		}
	})

	t.Run("JSON rejects objects", func(t *testing.T) {
		var s Song
		if err := json.Unmarshal([]byte(`{"id":{"a":1}}`), &s); err == nil {
			t.Error("expected error for object id")
		}
	})

	t.Run("YAML", func(t *testing.T) {
		data := "id: 2\ntrack: Stinkfist\nartist: Tool\nposition: 2\npollyear: 1998\nalltime: true\nreleaseyear: '1996'\n"

		var s Song
		if err := yaml.Unmarshal([]byte(data), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ID != "2" || s.PollYear != "1998" || !s.AllTime || s.ReleaseYear != "1996" {
			t.Errorf("unexpected song: %+v", s)
		}
		if s.PlaylistName() != "Triple J Top 100 1998 All-Time" {
			t.Errorf("unexpected name %q", s.PlaylistName())
		}
	})
}
