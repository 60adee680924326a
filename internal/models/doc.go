// Package models defines the domain values for the Hottest 100 playlist sync.
//
// Input:
//   - [Song] : one entry of the poll data file, immutable once loaded
//   - [Text] : a passthrough scalar that accepts JSON/YAML strings or numbers
//
// Derived:
//   - [PlaylistGroup] : songs sharing a poll year and category, keyed by [Song.PlaylistName]
//
// Remote:
//   - [User], [Track], [Playlist] : the minimal views of Spotify objects the sync needs
//
// History (persisted by the repositories package):
//   - [Run], [SyncedPlaylist], [MissedTrack]
package models
