package tasks

import (
	"fmt"
	"testing"

	"github.com/desertthunder/hottest100/internal/models"
)

func song(track string, pos int, year string, allTime bool) models.Song {
	return models.Song{Track: track, Artist: "Artist " + track, Position: pos, PollYear: models.Text(year), AllTime: allTime}
}

func TestGroupSongs(t *testing.T) {
	t.Run("two song example", func(t *testing.T) {
		groups := GroupSongs([]models.Song{
			{Track: "Buy Me a Pony", Artist: "Spiderbait", Position: 1, PollYear: "1996"},
			{Track: "Stinkfist", Artist: "Tool", Position: 2, PollYear: "1998", AllTime: true},
		})

		if len(groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(groups))
		}
		if groups[0].Name != "Triple J Top 100 1996" || groups[1].Name != "Triple J Top 100 1998 All-Time" {
			t.Errorf("unexpected names: %q, %q", groups[0].Name, groups[1].Name)
		}
		if len(groups[0].Songs) != 1 || groups[0].Songs[0].Track != "Buy Me a Pony" {
			t.Errorf("unexpected songs in first group: %+v", groups[0].Songs)
		}
	})

	t.Run("order of first appearance", func(t *testing.T) {
		groups := GroupSongs([]models.Song{
			song("a", 1, "2020", false),
			song("b", 1, "2009", true),
			song("c", 2, "2020", false),
			song("d", 1, "2019", false),
			song("e", 2, "2009", true),
		})

		want := []string{"Triple J Top 100 2020", "Triple J Top 100 2009 All-Time", "Triple J Top 100 2019"}
		if len(groups) != len(want) {
			t.Fatalf("expected %d groups, got %d", len(want), len(groups))
		}
		for i, name := range want {
			if groups[i].Name != name {
				t.Errorf("group %d: expected %q, got %q", i, name, groups[i].Name)
			}
		}

		if groups[0].Songs[0].Track != "a" || groups[0].Songs[1].Track != "c" {
			t.Errorf("input order not preserved: %+v", groups[0].Songs)
		}
	})

	t.Run("partition covers every song once", func(t *testing.T) {
		var songs []models.Song
		for i := range 250 {
			songs = append(songs, song(fmt.Sprint(i), i%100+1, fmt.Sprint(1993+i%7), i%3 == 0))
		}

		total := 0
		for _, g := range GroupSongs(songs) {
			for _, s := range g.Songs {
				if s.PlaylistName() != g.Name {
					t.Errorf("song %s in wrong group %q", s.Track, g.Name)
				}
			}
			total += len(g.Songs)
		}
		if total != len(songs) {
			t.Errorf("expected %d songs across groups, got %d", len(songs), total)
		}
	})

	t.Run("same year both categories", func(t *testing.T) {
		groups := GroupSongs([]models.Song{song("a", 1, "1998", false), song("b", 1, "1998", true)})
		if len(groups) != 2 {
			t.Errorf("expected annual and all-time playlists to differ, got %d groups", len(groups))
		}
	})

	t.Run("empty", func(t *testing.T) {
		if groups := GroupSongs(nil); len(groups) != 0 {
			t.Errorf("expected no groups, got %d", len(groups))
		}
	})
}

func TestSortByPositionDesc(t *testing.T) {
	in := []models.Song{
		song("one", 1, "2000", false),
		song("hundred", 100, "2000", false),
		song("tie-a", 50, "2000", false),
		song("tie-b", 50, "2000", false),
	}

	got := SortByPositionDesc(in)
	want := []string{"hundred", "tie-a", "tie-b", "one"}
	for i, w := range want {
		if got[i].Track != w {
			t.Errorf("position %d: expected %s, got %s", i, w, got[i].Track)
		}
	}

	if in[0].Track != "one" {
		t.Error("input slice should not be modified")
	}
}

func TestPlan(t *testing.T) {
	groups := Plan([]models.Song{song("a", 1, "2000", false), song("b", 2, "2000", false)})
	if len(groups) != 1 || groups[0].Songs[0].Track != "b" {
		t.Errorf("expected descending order in plan, got %+v", groups)
	}
}

func TestChunk(t *testing.T) {
	tc := []struct {
		n, size int
		want    []int
	}{
		{n: 0, size: 100, want: nil},
		{n: 1, size: 100, want: []int{1}},
		{n: 100, size: 100, want: []int{100}},
		{n: 101, size: 100, want: []int{100, 1}},
		{n: 250, size: 100, want: []int{100, 100, 50}},
	}

	for _, tt := range tc {
		t.Run(fmt.Sprintf("%d by %d", tt.n, tt.size), func(t *testing.T) {
			items := make([]int, tt.n)
			for i := range items {
				items[i] = i
			}

			chunks := Chunk(items, tt.size)
			if len(chunks) != len(tt.want) {
				t.Fatalf("expected %d chunks, got %d", len(tt.want), len(chunks))
			}

			next := 0
			for i, c := range chunks {
				if len(c) != tt.want[i] {
					t.Errorf("chunk %d: expected %d items, got %d", i, tt.want[i], len(c))
				}
				for _, v := range c {
					if v != next {
						t.Fatalf("order broken at %d: got %d", next, v)
					}
					next++
				}
			}
		})
	}
}
