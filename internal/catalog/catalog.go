// Package catalog loads the poll data file.
//
// The file is a JSON (or YAML, chosen by extension) document whose top-level
// "songs" key holds the song list:
//
//	{"songs": [{"track": "...", "artist": "...", "position": 1, "pollyear": 1996, "alltime": false}]}
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/shared"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the data file lives relative to the working directory.
const DefaultPath = "data/songs.json"

// Format selects the decoder for a data file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

type document struct {
	Songs *[]models.Song `json:"songs" yaml:"songs"`
}

// FormatFor picks a [Format] from the file extension; anything but .yaml/.yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads the songs from the data file at path.
func Load(path string) ([]models.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open data file: %v", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	songs, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return songs, nil
}

// Decode parses a songs document. A document without a "songs" key is an error; an empty list is not.
func Decode(r io.Reader, format Format) ([]models.Song, error) {
	var doc document

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: malformed YAML: %v", shared.ErrInvalidInput, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: malformed JSON: %v", shared.ErrInvalidInput, err)
		}
	}

	if doc.Songs == nil {
		return nil, fmt.Errorf("%w: missing \"songs\" key", shared.ErrInvalidInput)
	}
	return *doc.Songs, nil
}
