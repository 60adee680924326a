// Package ui implements the `sync --tui` progress view using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [SyncView] : spinner, overall progress bar, current step and a running list of finished playlists
//  2. [ResultView] : summary counts with browsable lists of playlists and songs that were not found
//
// The (view) [Model] implements the standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel fed by the orchestrator. Pressing q during a sync cancels the
// run context; playlists already created stay on the account.
package ui
