package tasks

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"

	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/services"
)

// MatchCache persists successful matches between runs.
//
// Implementations are keyed on the escaped source triple.
type MatchCache interface {
	LookupMatch(ctx context.Context, track models.SourceTrack) (models.MatchResult, bool, error)
	StoreMatch(ctx context.Context, track models.SourceTrack, result models.MatchResult) error
}

// TrackMatcher resolves a source track to a catalog identifier.
type TrackMatcher interface {
	Match(ctx context.Context, track models.SourceTrack) models.MatchResult
}

// MatcherOptions configures a [Matcher].
type MatcherOptions struct {
	// LegacySubstringCase folds only the source title in the title substring
	// rule, comparing it against the raw candidate title in one direction.
	LegacySubstringCase bool
	Cache               MatchCache
	Logger              *log.Logger
}

// Matcher resolves source tracks against a song catalog with progressive
// query relaxation and a fixed-priority ranking.
type Matcher struct {
	catalog services.SongSearcher
	opts    MatcherOptions
	logger  *log.Logger
}

// NewMatcher creates a [Matcher] that searches catalog.
func NewMatcher(catalog services.SongSearcher, opts MatcherOptions) *Matcher {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Matcher{catalog: catalog, opts: opts, logger: logger}
}

// Match returns the catalog identifier for track, or [models.NotFound].
//
// Search failures are logged and reported as not found.
func (m *Matcher) Match(ctx context.Context, track models.SourceTrack) models.MatchResult {
	if m.opts.Cache != nil {
		cached, ok, err := m.opts.Cache.LookupMatch(ctx, track)
		if err != nil {
			m.logger.Warn("match cache lookup failed", "title", track.Title, "error", err)
		} else if ok && cached.Found() {
			return models.MatchResult{TrackID: cached.TrackID, Rule: models.RuleCached}
		}
	}

	candidates, err := m.search(ctx, track)
	if err != nil {
		m.logger.Warn("catalog search failed", "title", track.Title, "artist", track.Artist, "error", err)
		return models.NotFound
	}

	result := Rank(candidates, track, m.opts.LegacySubstringCase)
	if !result.Found() {
		return result
	}
	m.logger.Debug("matched", "title", track.Title, "id", result.TrackID, "rule", result.Rule)

	if m.opts.Cache != nil {
		if err := m.opts.Cache.StoreMatch(ctx, track, result); err != nil {
			m.logger.Warn("match cache store failed", "title", track.Title, "error", err)
		}
	}
	return result
}

// SearchTerms lists the queries issued for track, most specific first.
func SearchTerms(track models.SourceTrack) []string {
	return []string{
		track.Title + " " + track.Artist + " " + track.Album,
		track.Title + " " + track.Artist,
		track.Title + " " + track.Album,
		track.Title,
	}
}

// search relaxes the query until the catalog returns candidates, then
// fetches the last term issued once more and returns that set for ranking.
// The set is empty when every relaxation came back empty.
func (m *Matcher) search(ctx context.Context, track models.SourceTrack) ([]models.CatalogTrack, error) {
	var last string
	for _, term := range SearchTerms(track) {
		last = term
		results, err := m.catalog.SearchSongs(ctx, term)
		if err != nil {
			return nil, err
		}
		m.logger.Debug("catalog search", "term", term, "results", len(results))

		if len(results) > 0 {
			break
		}
	}

	candidates, err := m.catalog.SearchSongs(ctx, last)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("ranking set", "term", last, "results", len(candidates))
	return candidates, nil
}

type rankRule struct {
	rule  models.MatchRule
	match func(c models.CatalogTrack) bool
}

// Rank picks a candidate for track by trying each rule in priority order
// and returning the first candidate satisfying the first rule that matches.
// Without a rule match, a non-empty set falls back to its first candidate.
func Rank(candidates []models.CatalogTrack, track models.SourceTrack, legacySubstringCase bool) models.MatchResult {
	if len(candidates) == 0 {
		return models.NotFound
	}

	title := fold(track.Title)
	artist := fold(track.Artist)
	album := fold(track.Album)

	exactTitle := func(c models.CatalogTrack) bool { return fold(c.TrackName) == title }
	exactArtist := func(c models.CatalogTrack) bool { return fold(c.ArtistName) == artist }
	exactAlbum := func(c models.CatalogTrack) bool { return fold(c.CollectionName) == album }

	titleSubstring := func(c models.CatalogTrack) bool { return eitherContains(fold(c.TrackName), title) }
	if legacySubstringCase {
		titleSubstring = func(c models.CatalogTrack) bool {
			return strings.Contains(c.TrackName, title) || strings.Contains(title, fold(c.TrackName))
		}
	}

	rules := []rankRule{
		{models.RuleExactAll, func(c models.CatalogTrack) bool {
			return exactTitle(c) && exactArtist(c) && exactAlbum(c)
		}},
		{models.RuleExactArtist, func(c models.CatalogTrack) bool {
			return exactTitle(c) && exactArtist(c)
		}},
		{models.RuleExactAlbum, func(c models.CatalogTrack) bool {
			return exactTitle(c) && exactAlbum(c)
		}},
		{models.RuleArtistSubstring, func(c models.CatalogTrack) bool {
			return exactTitle(c) && eitherContains(fold(c.ArtistName), artist)
		}},
		{models.RuleAlbumSubstring, func(c models.CatalogTrack) bool {
			return exactTitle(c) && eitherContains(fold(c.CollectionName), album)
		}},
		{models.RuleExactTitle, exactTitle},
		{models.RuleTitleSubstring, titleSubstring},
	}

	for _, r := range rules {
		for _, c := range candidates {
			if r.match(c) {
				return models.MatchResult{TrackID: c.TrackID, Rule: r.rule}
			}
		}
	}

	return models.MatchResult{TrackID: candidates[0].TrackID, Rule: models.RuleFirstResult}
}

// fold applies Unicode case folding for case-insensitive comparison.
func fold(s string) string {
	return cases.Fold().String(s)
}

func eitherContains(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
