package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/tasks"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = missItem{}
)

// playlistItem wraps a synchronized [tasks.PlaylistResult] to implement [list.Item].
type playlistItem struct {
	result *tasks.PlaylistResult
}

func (i playlistItem) FilterValue() string { return i.result.Group.Name }
func (i playlistItem) Title() string       { return i.result.Group.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d/%d tracks", len(i.result.URIs), len(i.result.Group.Songs))
	if missing := len(i.result.Missing()); missing > 0 {
		desc = fmt.Sprintf("%s • %d not found", desc, missing)
	}
	return desc
}

// missItem wraps a [models.Song] that had no search result.
type missItem struct {
	song models.Song
}

func (i missItem) FilterValue() string { return i.song.Track }
func (i missItem) Title() string       { return fmt.Sprintf("%s by %s", i.song.Track, i.song.Artist) }
func (i missItem) Description() string {
	return fmt.Sprintf("#%d • %s", i.song.Position, i.song.PlaylistName())
}

func playlistItems(results []*tasks.PlaylistResult) []list.Item {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = playlistItem{result: r}
	}
	return items
}

func missItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = missItem{song: s}
	}
	return items
}
