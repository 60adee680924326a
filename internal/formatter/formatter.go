// package formatter renders playlist plans to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/shared"
)

// Format names an output format.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// ParseFormat accepts a format name or a common alias ("md", "txt").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (text, markdown, csv, json)", shared.ErrInvalidFlag, s)
	}
}

// Render converts groups to the requested format.
func Render(groups []models.PlaylistGroup, f Format) ([]byte, error) {
	switch f {
	case Text:
		return PlanToText(groups)
	case Markdown:
		return PlanToMarkdown(groups)
	case CSV:
		return PlanToCSV(groups)
	case JSON:
		return PlanToJSON(groups)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// PlanToCSV writes one row per song with columns: Playlist, Order, Position, Track, Artist, PollYear, AllTime, Country, ReleaseYear, ID
func PlanToCSV(groups []models.PlaylistGroup) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Playlist", "Order", "Position", "Track", "Artist", "PollYear", "AllTime", "Country", "ReleaseYear", "ID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, g := range groups {
		for i, s := range g.Songs {
			record := []string{
				g.Name,
				strconv.Itoa(i + 1),
				strconv.Itoa(s.Position),
				s.Track,
				s.Artist,
				s.PollYear.String(),
				strconv.FormatBool(s.AllTime),
				s.Country.String(),
				s.ReleaseYear.String(),
				s.ID.String(),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlanToMarkdown renders a section per playlist with a numbered song list.
func PlanToMarkdown(groups []models.PlaylistGroup) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Playlists (%d)\n\n", len(groups))
	for _, g := range groups {
		fmt.Fprintf(&buf, "## %s\n\n", g.Name)
		fmt.Fprintf(&buf, "**Description**: %s\n\n", g.Description())
		fmt.Fprintf(&buf, "**Songs**: %d\n\n", len(g.Songs))
		for i, s := range g.Songs {
			fmt.Fprintf(&buf, "%d. #%d %s - %s\n", i+1, s.Position, s.Artist, s.Track)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// PlanToText renders playlists as plain text.
func PlanToText(groups []models.PlaylistGroup) ([]byte, error) {
	var buf bytes.Buffer

	for i, g := range groups {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "Playlist: %s\n", g.Name)
		fmt.Fprintf(&buf, "Songs: %d\n\n", len(g.Songs))
		for j, s := range g.Songs {
			fmt.Fprintf(&buf, "%d. [#%d] %s - %s\n", j+1, s.Position, s.Artist, s.Track)
		}
	}

	return buf.Bytes(), nil
}

// PlanToJSON renders the groups as indented JSON.
func PlanToJSON(groups []models.PlaylistGroup) ([]byte, error) {
	if groups == nil {
		groups = []models.PlaylistGroup{}
	}
	data, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}
	return append(data, '\n'), nil
}

// WritePlan renders groups and writes them to path.
func WritePlan(groups []models.PlaylistGroup, f Format, path string) error {
	data, err := Render(groups, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
