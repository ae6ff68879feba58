// iTunes Search API [SongSearcher] implementation
//
// Public, unauthenticated song search used to resolve export rows to catalog ids.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/shared"
)

const defaultITunesBaseURL = "https://itunes.apple.com/search"

// ITunesOptions configures the fixed query parameters of every search.
type ITunesOptions struct {
	BaseURL string
	Country string
	Limit   int
}

type itunesResult struct {
	TrackID        json.Number `json:"trackId"`
	TrackName      string      `json:"trackName"`
	ArtistName     string      `json:"artistName"`
	CollectionName string      `json:"collectionName"`
}

type itunesSearchResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []itunesResult `json:"results"`
}

// ITunesService searches the public iTunes catalog for songs.
type ITunesService struct {
	baseURL    string
	country    string
	limit      int
	httpClient *http.Client
}

// NewITunesService creates a search client; zero options fall back to FR, limit 5.
func NewITunesService(opts ITunesOptions, client *http.Client) *ITunesService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultITunesBaseURL
	}
	if opts.Country == "" {
		opts.Country = "FR"
	}
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ITunesService{
		baseURL:    opts.BaseURL,
		country:    opts.Country,
		limit:      opts.Limit,
		httpClient: client,
	}
}

// Name returns the service name.
func (s *ITunesService) Name() string {
	return "iTunes Search"
}

// SearchSongs queries the catalog with media=music and entity=song.
func (s *ITunesService) SearchSongs(ctx context.Context, term string) ([]models.CatalogTrack, error) {
	query := url.Values{
		"country": {s.country},
		"media":   {"music"},
		"entity":  {"song"},
		"limit":   {strconv.Itoa(s.limit)},
		"term":    {term},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: itunes search returned status %d", shared.ErrUnexpectedStatus, resp.StatusCode)
	}

	var body itunesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	tracks := make([]models.CatalogTrack, 0, len(body.Results))
	for _, r := range body.Results {
		tracks = append(tracks, models.CatalogTrack{
			TrackID:        r.TrackID.String(),
			TrackName:      r.TrackName,
			ArtistName:     r.ArtistName,
			CollectionName: r.CollectionName,
		})
	}
	return tracks, nil
}
