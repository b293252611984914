package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/webdone/internal/entity"
)

const (
	pageSize        = 20
	maxOffset       = 60
	maxReviews      = 3
	minReviewLen    = 30
	maxReviewLen    = 300
	minReviewRating = 4

	defaultBaseURL = "https://serpapi.com/search"
	defaultRegion  = "RO"
)

// ErrNotConfigured is returned when no search credential is available.
// The finder then yields a deterministic empty set, never sample data.
var ErrNotConfigured = errors.New("search api key not configured")

// HTTPClient abstracts the transport for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Finder queries the maps search service for businesses matching a
// category and location, keeping only those with a phone number and no
// listed website.
type Finder struct {
	apiKey  string
	mapsKey string
	baseURL string
	region  string
	client  HTTPClient
}

// FinderOption configures optional dependencies.
type FinderOption func(*Finder)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPClient) FinderOption {
	return func(f *Finder) {
		if client != nil {
			f.client = client
		}
	}
}

// WithBaseURL points the finder at a different search endpoint.
func WithBaseURL(base string) FinderOption {
	return func(f *Finder) {
		if base != "" {
			f.baseURL = base
		}
	}
}

// NewFinder builds a finder. mapsKey is optional and only enables
// street-view photo URLs.
func NewFinder(apiKey, mapsKey string, opts ...FinderOption) *Finder {
	f := &Finder{
		apiKey:  apiKey,
		mapsKey: mapsKey,
		baseURL: defaultBaseURL,
		region:  defaultRegion,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type searchResponse struct {
	LocalResults []localResult `json:"local_results"`
}

type localResult struct {
	Title   string   `json:"title"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Website string   `json:"website"`
	Type    string   `json:"type"`
	Rating  *float64 `json:"rating"`
	Reviews *int     `json:"reviews"`
	PlaceID string   `json:"place_id"`
}

type reviewsResponse struct {
	Reviews []rawReview `json:"reviews"`
}

type rawReview struct {
	Snippet string  `json:"snippet"`
	Text    string  `json:"text"`
	Rating  float64 `json:"rating"`
	User    struct {
		Name string `json:"name"`
	} `json:"user"`
}

// FindLeads pages through the search service in increments of 20 up to 60
// scanned results, stopping early once limit qualifying leads are
// collected or a page comes back empty. Mid-pagination failures truncate
// the result set instead of erroring.
func (f *Finder) FindLeads(ctx context.Context, location, query string, limit int) ([]entity.Lead, error) {
	if f.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}

	leads := make([]entity.Lead, 0, limit)
	for start := 0; len(leads) < limit && start < maxOffset; start += pageSize {
		page, err := f.searchPage(ctx, location, query, start)
		if err != nil {
			log.Printf("leads: pagination stopped start=%d err=%v", start, err)
			break
		}
		if len(page) == 0 {
			break
		}

		for _, biz := range page {
			if biz.Phone == "" || biz.Website != "" {
				continue
			}
			leads = append(leads, f.buildLead(ctx, biz, query))
			if len(leads) >= limit {
				break
			}
		}
	}
	return leads, nil
}

func (f *Finder) buildLead(ctx context.Context, biz localResult, query string) entity.Lead {
	category := biz.Type
	if category == "" {
		category = query
	}

	lead := entity.Lead{
		Name:         biz.Title,
		Category:     category,
		Address:      biz.Address,
		Phone:        normalizePhone(biz.Phone, f.region),
		Rating:       biz.Rating,
		ReviewsCount: biz.Reviews,
		Reviews:      []entity.Review{},
	}
	if biz.PlaceID != "" {
		placeID := biz.PlaceID
		lead.PlaceID = &placeID
		lead.Reviews = f.fetchReviews(ctx, placeID)
	}
	if u := f.streetViewURL(biz.Address); u != "" {
		lead.StreetViewURL = &u
	}
	return lead
}

func (f *Finder) searchPage(ctx context.Context, location, query string, start int) ([]localResult, error) {
	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("q", query)
	params.Set("location", location)
	params.Set("type", "search")
	params.Set("api_key", f.apiKey)
	params.Set("start", strconv.Itoa(start))

	var resp searchResponse
	if err := f.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	return resp.LocalResults, nil
}

// fetchReviews keeps up to 3 snippets with rating >= 4 and at least 30
// characters, capped at 300. Failures yield an empty list, never an error.
func (f *Finder) fetchReviews(ctx context.Context, placeID string) []entity.Review {
	params := url.Values{}
	params.Set("engine", "google_maps_reviews")
	params.Set("place_id", placeID)
	params.Set("api_key", f.apiKey)
	params.Set("hl", "ro")
	params.Set("sort_by", "qualityScore")

	var resp reviewsResponse
	if err := f.get(ctx, params, &resp); err != nil {
		log.Printf("leads: review fetch failed place_id=%s err=%v", placeID, err)
		return []entity.Review{}
	}

	reviews := make([]entity.Review, 0, maxReviews)
	for _, r := range resp.Reviews {
		if len(reviews) >= maxReviews {
			break
		}
		snippet := r.Snippet
		if snippet == "" {
			snippet = r.Text
		}
		if len(snippet) < minReviewLen {
			continue
		}
		rating := int(r.Rating)
		if rating == 0 {
			rating = 5
		}
		if rating < minReviewRating {
			continue
		}
		snippet = truncateReview(snippet)
		author := r.User.Name
		if author == "" {
			author = "Client"
		}
		reviews = append(reviews, entity.Review{Author: author, Rating: rating, Text: snippet})
	}
	return reviews
}

// truncateReview caps the snippet at maxReviewLen bytes without
// splitting a multi-byte character.
func truncateReview(snippet string) string {
	if len(snippet) <= maxReviewLen {
		return snippet
	}
	cut := maxReviewLen
	for cut > 0 && !utf8.RuneStart(snippet[cut]) {
		cut--
	}
	return snippet[:cut]
}

func (f *Finder) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build search request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode search response: %w", err)
	}
	return nil
}

// streetViewURL builds a static street-view image URL; only when a maps
// credential is configured, matching the free-tier behaviour upstream.
func (f *Finder) streetViewURL(address string) string {
	if f.mapsKey == "" || address == "" {
		return ""
	}
	encoded := url.QueryEscape(address + ", Romania")
	return fmt.Sprintf("https://maps.googleapis.com/maps/api/streetview?size=800x400&location=%s&key=%s", encoded, f.mapsKey)
}

// normalizePhone formats to E.164 where parseable and keeps the raw value
// otherwise; a lead is never dropped over phone formatting.
func normalizePhone(raw, region string) string {
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
