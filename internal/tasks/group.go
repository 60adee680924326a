package tasks

import (
	"cmp"
	"slices"

	"github.com/desertthunder/hottest100/internal/models"
)

// GroupSongs partitions songs by [models.Song.PlaylistName].
//
// Groups appear in order of their first song; songs keep their input order within a group.
func GroupSongs(songs []models.Song) []models.PlaylistGroup {
	index := make(map[string]int)
	var groups []models.PlaylistGroup

	for _, s := range songs {
		name := s.PlaylistName()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, models.PlaylistGroup{Name: name})
		}
		groups[i].Songs = append(groups[i].Songs, s)
	}
	return groups
}

// SortByPositionDesc returns a copy of songs ordered by position, highest first.
// Equal positions keep their relative order.
func SortByPositionDesc(songs []models.Song) []models.Song {
	sorted := slices.Clone(songs)
	slices.SortStableFunc(sorted, func(a, b models.Song) int {
		return cmp.Compare(b.Position, a.Position)
	})
	return sorted
}

// Plan groups songs and orders each group the way it will be added to its playlist.
// It makes no remote calls.
func Plan(songs []models.Song) []models.PlaylistGroup {
	groups := GroupSongs(songs)
	for i := range groups {
		groups[i].Songs = SortByPositionDesc(groups[i].Songs)
	}
	return groups
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for c := range slices.Chunk(items, size) {
		chunks = append(chunks, c)
	}
	return chunks
}
