// Package repositories implements SQLite persistence for sync run history.
//
// History is an audit log: nothing here is read back by the sync itself.
//
// Key Implementations:
//   - [RunRepository] : one row per sync invocation with status and error
//   - [SyncedPlaylistRepository] : playlists created during a run
//   - [MissRepository] : songs with no search result
//   - [HistoryRecorder] : adapts the repositories to the tasks.Recorder interface
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
