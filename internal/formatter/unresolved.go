package formatter

import (
	"fmt"
	"os"

	"github.com/desertthunder/amx/internal/models"
)

// UnresolvedTrack formats a not-found playlist row as
// "{playlist};{title};{artist};{album}; NOT FOUND".
func UnresolvedTrack(playlist string, track models.SourceTrack) string {
	return fmt.Sprintf("%s;%s;%s;%s; NOT FOUND", playlist, track.Title, track.Artist, track.Album)
}

// UnresolvedAlbum formats a not-found album as "{album};{artist}; NOT FOUND".
func UnresolvedAlbum(album models.AlbumRequest) string {
	return fmt.Sprintf("%s;%s; NOT FOUND", album.Album, album.Artist)
}

// AppendRecord appends one line to the log at path, creating it if needed.
//
// The file is opened and closed on every call.
func AppendRecord(path, record string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	if _, err := fmt.Fprintln(f, record); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
