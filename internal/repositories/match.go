package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/shared"
)

// MatchRepository stores catalog matches keyed by the escaped source triple.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new MatchRepository with the given database connection
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Get retrieves the stored match for track
func (r *MatchRepository) Get(track models.SourceTrack) (*models.CachedMatch, error) {
	query := `
		SELECT track_id, rule, created_at, updated_at
		FROM matches
		WHERE title = ? AND artist = ? AND album = ?
	`

	var (
		trackID   string
		rule      string
		createdAt time.Time
		updatedAt time.Time
	)
	err := r.db.QueryRow(query, track.Title, track.Artist, track.Album).Scan(&trackID, &rule, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: match for %q", shared.ErrNotFound, track.Title)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}

	return &models.CachedMatch{
		Track:     track,
		TrackID:   trackID,
		Rule:      models.MatchRule(rule),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Save inserts or replaces the match for track
func (r *MatchRepository) Save(track models.SourceTrack, result models.MatchResult) error {
	if !result.Found() {
		return fmt.Errorf("%w: refusing to store an empty match", shared.ErrInvalidInput)
	}

	now := time.Now()
	query := `
		INSERT INTO matches (title, artist, album, track_id, rule, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (title, artist, album)
		DO UPDATE SET track_id = excluded.track_id, rule = excluded.rule, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, track.Title, track.Artist, track.Album, result.TrackID, string(result.Rule), now, now); err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}
	return nil
}

// Count returns the number of stored matches
func (r *MatchRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM matches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}

// CountByRule returns the number of stored matches per ranking rule
func (r *MatchRepository) CountByRule() (map[models.MatchRule]int, error) {
	rows, err := r.db.Query(`SELECT rule, COUNT(*) FROM matches GROUP BY rule ORDER BY rule`)
	if err != nil {
		return nil, fmt.Errorf("failed to query match rules: %w", err)
	}
	defer rows.Close()

	counts := map[models.MatchRule]int{}
	for rows.Next() {
		var (
			rule string
			n    int
		)
		if err := rows.Scan(&rule, &n); err != nil {
			return nil, fmt.Errorf("failed to scan match rule: %w", err)
		}
		counts[models.MatchRule(rule)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return counts, nil
}

// Clear deletes every stored match and returns how many were removed
func (r *MatchRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM matches`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear matches: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}
