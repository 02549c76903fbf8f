// Package tmdb is a minimal client for The Movie Database, covering the
// lookups the enrich command needs: resolve an IMDb id to a TMDB movie,
// fetch its details and credits, and fetch credited people's profiles.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// TMDB allows ~4 requests per second.
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
	}
}

// NewWithBaseURL exists for tests.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

// APIError is a non-2xx response from TMDB.
type APIError struct {
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb returned status %d", e.StatusCode)
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type CrewMember struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type MovieDetails struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []Genre `json:"genres"`
	Credits     Credits `json:"credits"`
}

type findResponse struct {
	MovieResults []struct {
		ID int `json:"id"`
	} `json:"movie_results"`
}

// FindByIMDbID resolves an IMDb id (tt...) to a TMDB movie id. A zero
// return with nil error means the movie is unknown to TMDB.
func (c *Client) FindByIMDbID(ctx context.Context, imdbID string) (int, error) {
	var resp findResponse
	err := c.get(ctx, "/find/"+url.PathEscape(imdbID), url.Values{"external_source": {"imdb_id"}}, &resp)
	if err != nil {
		return 0, fmt.Errorf("finding %s: %w", imdbID, err)
	}
	if len(resp.MovieResults) == 0 {
		return 0, nil
	}
	return resp.MovieResults[0].ID, nil
}

// MovieDetails fetches a movie with its credits appended.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	var details MovieDetails
	err := c.get(ctx, fmt.Sprintf("/movie/%d", id), url.Values{"append_to_response": {"credits"}}, &details)
	if err != nil {
		return nil, fmt.Errorf("fetching movie %d: %w", id, err)
	}
	return &details, nil
}

type PersonDetails struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Birthday string `json:"birthday"`
}

// BirthYear parses the year out of the birthday, which TMDB reports as
// yyyy-mm-dd. Zero when the birthday is absent or malformed.
func (p *PersonDetails) BirthYear() int {
	if len(p.Birthday) < 4 {
		return 0
	}
	year, err := strconv.Atoi(p.Birthday[:4])
	if err != nil {
		return 0
	}
	return year
}

// PersonDetails fetches one person's profile.
func (c *Client) PersonDetails(ctx context.Context, id int) (*PersonDetails, error) {
	var details PersonDetails
	err := c.get(ctx, fmt.Sprintf("/person/%d", id), url.Values{}, &details)
	if err != nil {
		return nil, fmt.Errorf("fetching person %d: %w", id, err)
	}
	return &details, nil
}

// get performs one rate-limited request, retrying on TMDB 5xx responses.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("api_key", c.apiKey)
	requestURL := c.baseURL + path + "?" + params.Encode()

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
			if err != nil {
				return err
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return &APIError{StatusCode: resp.StatusCode}
			}
			return json.NewDecoder(resp.Body).Decode(out)
		},
		retry.Attempts(3),
		retry.RetryIf(func(err error) bool {
			if apiErr, ok := err.(*APIError); ok {
				return apiErr.StatusCode/100 == 5
			}
			return false
		}),
	)
}
