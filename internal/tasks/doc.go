// Package tasks turns a song list into Spotify playlists.
//
// # Core Operations
//
//  1. [GroupSongs] : partition songs by playlist name, groups in order of first appearance
//  2. [Synchronizer.Sync] : for one group, in order
//     - sort songs by position, highest first (stable)
//     - resolve the current user and create the playlist ("Playlist for {name}")
//     - search each song with "track:{track} artist:{artist}", limit 1; misses are logged and skipped
//     - add the matched URIs in batches of at most 100
//  3. [Orchestrator.Run] : group, then sync each group sequentially; the first error stops the run
//
// [Plan] performs the grouping and ordering without touching the network.
//
// Every remote call goes through a [services.Invoker], so rate limited calls are retried transparently.
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Recording
//
// The optional [Recorder] interface receives each completed playlist. The repositories package
// implements it to keep run history; recording failures never interrupt a sync.
package tasks
