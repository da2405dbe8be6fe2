package bodhi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrFeedRequest indicates the update feed could not be reached or
	// rejected the request
	ErrFeedRequest = errors.New("update feed request failed")
	// ErrFeedDecode indicates the update feed returned malformed data
	ErrFeedDecode = errors.New("update feed returned malformed data")
)

// Client handles communication with the Bodhi API
type Client struct {
	BaseURL     string
	UserAgent   string
	HTTPClient  *http.Client
	RowsPerPage int
}

// updatesPage is one page of the paginated updates listing
type updatesPage struct {
	Updates []Update `json:"updates"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
	Total   int      `json:"total"`
}

// NewClient creates a new Bodhi API client
func NewClient() *Client {
	return &Client{
		BaseURL:   "https://bodhi.fedoraproject.org",
		UserAgent: "karmawatch/1.0",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		RowsPerPage: 100,
	}
}

// QueryTesting fetches every RPM update currently in testing for the given
// release, e.g. "F41". The listing is paginated; pages are fetched
// sequentially and the first failure aborts the whole query. No retry is
// attempted, the next scheduled run simply tries again.
func (c *Client) QueryTesting(release string) ([]Update, error) {
	var updates []Update

	page := 1
	for {
		p, err := c.fetchPage(release, page)
		if err != nil {
			return nil, err
		}
		updates = append(updates, p.Updates...)

		if p.Pages <= 0 || page >= p.Pages {
			break
		}
		page++
	}

	return updates, nil
}

// fetchPage fetches a single page of the updates listing
func (c *Client) fetchPage(release string, page int) (*updatesPage, error) {
	query := url.Values{}
	query.Set("releases", release)
	query.Set("status", "testing")
	query.Set("content_type", "rpm")
	query.Set("page", strconv.Itoa(page))
	query.Set("rows_per_page", strconv.Itoa(c.RowsPerPage))

	endpoint := fmt.Sprintf("%s/updates/?%s", strings.TrimRight(c.BaseURL, "/"), query.Encode())

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedRequest, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d for page %d", ErrFeedRequest, resp.StatusCode, page)
	}

	var p updatesPage
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedDecode, err)
	}

	return &p, nil
}
