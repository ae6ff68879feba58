package models

import (
	"fmt"
	"time"
)

// RunKind identifies what a [Run] synchronized.
type RunKind string

const (
	RunKindPlaylist RunKind = "playlist"
	RunKindAlbums   RunKind = "albums"
)

// RunStatus is the lifecycle state of a [Run].
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one synchronized export file.
type Run struct {
	id           string
	sequence     int
	kind         RunKind
	source       string
	target       string
	status       RunStatus
	total        int
	converted    int
	failed       int
	errorMessage string
	startedAt    time.Time
	completedAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewRun creates a running [Run] for the export at source.
func NewRun(kind RunKind, source string) *Run {
	now := time.Now()
	return &Run{
		kind:      kind,
		source:    source,
		status:    RunStatusRunning,
		startedAt: now,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreRun rebuilds a [Run] from stored columns.
func RestoreRun(id string, sequence int, kind RunKind, source, target string, status RunStatus, total, converted, failed int, errorMessage string, startedAt time.Time, completedAt *time.Time, createdAt, updatedAt time.Time, deletedAt *time.Time) *Run {
	return &Run{
		id:           id,
		sequence:     sequence,
		kind:         kind,
		source:       source,
		target:       target,
		status:       status,
		total:        total,
		converted:    converted,
		failed:       failed,
		errorMessage: errorMessage,
		startedAt:    startedAt,
		completedAt:  completedAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		deletedAt:    deletedAt,
	}
}

func (r *Run) ID() string { return r.id }
func (r *Run) Sequence() int { return r.sequence }
func (r *Run) Kind() RunKind { return r.kind }
func (r *Run) Source() string { return r.source }
func (r *Run) Target() string { return r.target }
func (r *Run) Status() RunStatus { return r.status }
func (r *Run) Total() int { return r.total }
func (r *Run) Converted() int { return r.converted }
func (r *Run) Failed() int { return r.failed }
func (r *Run) ErrorMessage() string { return r.errorMessage }
func (r *Run) StartedAt() time.Time { return r.startedAt }
func (r *Run) CompletedAt() *time.Time { return r.completedAt }
func (r *Run) CreatedAt() time.Time { return r.createdAt }
func (r *Run) UpdatedAt() time.Time { return r.updatedAt }
func (r *Run) DeletedAt() *time.Time { return r.deletedAt }

func (r *Run) SetID(id string) { r.id = id }
func (r *Run) SetSequence(seq int) { r.sequence = seq }
func (r *Run) SetTarget(target string) { r.target = target }
func (r *Run) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *Run) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// Percentage is the rounded share of converted items, 0 for an empty export.
func (r *Run) Percentage() int {
	return percentage(r.converted, r.total)
}

// Complete marks the run finished with its final tally.
func (r *Run) Complete(total, converted, failed int) {
	now := time.Now()
	r.status = RunStatusCompleted
	r.total = total
	r.converted = converted
	r.failed = failed
	r.completedAt = &now
	r.updatedAt = now
}

// Fail marks the run aborted by a fatal per-file error.
func (r *Run) Fail(err error) {
	now := time.Now()
	r.status = RunStatusFailed
	if err != nil {
		r.errorMessage = err.Error()
	}
	r.completedAt = &now
	r.updatedAt = now
}

// Validate checks the invariants enforced by the runs table.
func (r *Run) Validate() error {
	switch r.kind {
	case RunKindPlaylist, RunKindAlbums:
	default:
		return fmt.Errorf("invalid run kind %q", r.kind)
	}
	switch r.status {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed:
	default:
		return fmt.Errorf("invalid run status %q", r.status)
	}
	if r.source == "" {
		return fmt.Errorf("run source is required")
	}
	if r.converted+r.failed > r.total {
		return fmt.Errorf("run tally exceeds total: %d+%d > %d", r.converted, r.failed, r.total)
	}
	return nil
}

// CachedMatch is a stored catalog match for an escaped source triple.
type CachedMatch struct {
	Track     SourceTrack
	TrackID   string
	Rule      MatchRule
	CreatedAt time.Time
	UpdatedAt time.Time
}
