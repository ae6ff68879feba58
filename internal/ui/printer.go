package ui

import (
	"fmt"
	"io"

	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/tasks"
)

// Printer writes one styled console line per [tasks.ProgressUpdate].
type Printer struct {
	w io.Writer
}

// NewPrinter creates a [Printer] writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Run drains updates on its own goroutine until the channel is closed.
//
// The returned channel is closed once the last update has been written.
func (p *Printer) Run(updates <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			p.Print(u)
		}
	}()
	return done
}

// Print writes a single update.
func (p *Printer) Print(u tasks.ProgressUpdate) {
	fmt.Fprintln(p.w, Render(u))
}

// Render styles an update's message according to its phase and outcome.
func Render(u tasks.ProgressUpdate) string {
	switch u.Phase {
	case tasks.CreatePlaylist, tasks.LoadPlaylists, tasks.FetchTracks:
		return Title(u.Message)
	case tasks.MatchTracks:
		if result, ok := u.Data.(models.MatchResult); ok && !result.Found() {
			return Warning(u.Message)
		}
		return u.Message
	case tasks.Duplicate:
		return Muted(u.Message)
	case tasks.AddTrack, tasks.AddAlbum:
		if err, ok := u.Data.(error); ok && err != nil {
			return Failure(u.Message)
		}
		return Success(u.Message)
	case tasks.SearchAlbums:
		return Warning(u.Message)
	default:
		return u.Message
	}
}
