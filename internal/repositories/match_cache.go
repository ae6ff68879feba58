package repositories

import (
	"context"
	"errors"

	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/shared"
)

// MatchCache implements tasks.MatchCache using MatchRepository.
//
// A missing entry is a miss, not an error.
type MatchCache struct {
	repo *MatchRepository
}

// NewMatchCache creates a new MatchCache with the given repository
func NewMatchCache(repo *MatchRepository) *MatchCache {
	return &MatchCache{repo: repo}
}

// LookupMatch returns the stored match for track, if any.
func (c *MatchCache) LookupMatch(ctx context.Context, track models.SourceTrack) (models.MatchResult, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.NotFound, false, err
	}

	cached, err := c.repo.Get(track)
	if errors.Is(err, shared.ErrNotFound) {
		return models.NotFound, false, nil
	}
	if err != nil {
		return models.NotFound, false, err
	}
	return models.MatchResult{TrackID: cached.TrackID, Rule: cached.Rule}, true, nil
}

// StoreMatch records a successful match; not-found results are ignored.
func (c *MatchCache) StoreMatch(ctx context.Context, track models.SourceTrack, result models.MatchResult) error {
	if !result.Found() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.repo.Save(track, result)
}
