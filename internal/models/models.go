// package models defines the data model for the hottest100 playlist sync
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaylistPrefix begins every generated playlist name.
const PlaylistPrefix = "Triple J Top 100"

// Text is a scalar carried through from the data file without interpretation.
// It accepts a string, a number or null.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", b)
		}
		*t = Text(n.String())
	}
	return nil
}

func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*t = ""
		return nil
	}
	*t = Text(node.Value)
	return nil
}

func (t Text) String() string { return string(t) }

// Song is one poll entry. Position 1 is the top of the countdown.
type Song struct {
	ID          Text   `json:"id,omitempty" yaml:"id"`
	Track       string `json:"track" yaml:"track"`
	Artist      string `json:"artist" yaml:"artist"`
	Position    int    `json:"position" yaml:"position"`
	PollYear    Text   `json:"pollyear" yaml:"pollyear"`
	AllTime     bool   `json:"alltime" yaml:"alltime"`
	Country     Text   `json:"country,omitempty" yaml:"country"`
	ReleaseYear Text   `json:"releaseyear,omitempty" yaml:"releaseyear"`
}

// PlaylistName is the grouping key: "Triple J Top 100 {pollyear}" plus " All-Time" for all-time polls.
func (s Song) PlaylistName() string {
	name := PlaylistPrefix + " " + s.PollYear.String()
	if s.AllTime {
		name += " All-Time"
	}
	return name
}

// SearchQuery is the field-qualified track search for this song.
func (s Song) SearchQuery() string {
	return fmt.Sprintf("track:%s artist:%s", s.Track, s.Artist)
}

// PlaylistGroup holds the songs destined for one playlist, in input order.
type PlaylistGroup struct {
	Name  string `json:"name"`
	Songs []Song `json:"songs"`
}

// Description is the playlist description sent on creation.
func (g PlaylistGroup) Description() string {
	return "Playlist for " + g.Name
}

// User is the authenticated account.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

// Track is a single search hit.
type Track struct {
	ID     string `json:"id"`
	URI    string `json:"uri"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Playlist is a created remote playlist.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// RunStatus is the lifecycle state of a [Run].
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is one recorded sync invocation.
type Run struct {
	ID         string     `json:"id"`
	Sequence   int        `json:"sequence"`
	DataPath   string     `json:"data_path"`
	Status     RunStatus  `json:"status"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// SyncedPlaylist records a playlist created during a run.
type SyncedPlaylist struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	RemoteID   string    `json:"remote_id"`
	Name       string    `json:"name"`
	SongCount  int       `json:"song_count"`
	TrackCount int       `json:"track_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// MissedTrack records a song that had no search result.
type MissedTrack struct {
	ID           string    `json:"id"`
	RunID        string    `json:"run_id"`
	PlaylistName string    `json:"playlist_name"`
	Track        string    `json:"track"`
	Artist       string    `json:"artist"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}
