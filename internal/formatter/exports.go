package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/shared"
)

// Positional columns read from a playlist export row.
const (
	ColumnTitle  = 1
	ColumnArtist = 3
	ColumnAlbum  = 5
)

// minColumns is the number of columns a row needs to reach [ColumnAlbum].
const minColumns = ColumnAlbum + 1

// PlaylistName derives the destination playlist name from an export path.
//
// "exports/Road Trip.csv" -> "Road Trip"
func PlaylistName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsPlaylistExport reports whether name looks like a playlist export file.
func IsPlaylistExport(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// ReadPlaylistExport opens path and decodes it with [ParsePlaylistExport].
func ReadPlaylistExport(path string) ([]models.SourceTrack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist export: %w", err)
	}
	defer f.Close()

	tracks, err := ParsePlaylistExport(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tracks, nil
}

// ParsePlaylistExport reads a CSV playlist export.
//
// The first row is a header and is skipped. Every data row must have at
// least six columns; title, artist, and album are read from columns 1, 3 and 5.
// Values are returned unescaped.
func ParsePlaylistExport(r io.Reader) ([]models.SourceTrack, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.SourceTrack{}, nil
		}
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", shared.ErrInvalidInput, err)
	}

	tracks := []models.SourceTrack{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", shared.ErrInvalidInput, line, err)
		}
		if len(record) < minColumns {
			return nil, fmt.Errorf("%w: row %d has %d columns, need at least %d", shared.ErrInvalidInput, line, len(record), minColumns)
		}

		tracks = append(tracks, models.SourceTrack{
			Title:  record[ColumnTitle],
			Artist: record[ColumnArtist],
			Album:  record[ColumnAlbum],
		})
	}

	return tracks, nil
}

type albumsExport struct {
	Albums []models.AlbumRequest `json:"albums"`
}

// ReadAlbumsExport reads a liked-albums export: a JSON object with a top-level
// "albums" array of {album, artist} objects. Other keys are ignored.
func ReadAlbumsExport(path string) ([]models.AlbumRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read albums export: %w", err)
	}

	var export albumsExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidInput, path, err)
	}
	if export.Albums == nil {
		return nil, fmt.Errorf("%w: %s has no \"albums\" array", shared.ErrInvalidInput, path)
	}
	return export.Albums, nil
}

// ListPlaylistExports returns the playlist exports to process for path.
//
// A file is returned as is. A directory yields its regular *.csv files,
// non-recursively, sorted by name.
func ListPlaylistExports(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	files := []string{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsPlaylistExport(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	return files, nil
}
