package locamoi

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"locamoi-scraper/utils"
)

// Browser-like identity; the site serves a block page to obvious bots.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0 Safari/537.36"

// Fetcher downloads one search-result page per call. There is no retry:
// a failed page terminates the task's pagination upstream.
type Fetcher struct {
	client *http.Client
	logger *utils.Logger
}

// NewFetcher creates a Fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration, logger *utils.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// FetchPage performs a single GET and returns the page body. ok is false for
// any transport error or non-200 status; both outcomes are logged and mean
// "no page" to the caller.
func (f *Fetcher) FetchPage(pageURL string) (string, bool) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		f.logger.Error("[fetch] Bad URL %s: %v", pageURL, err)
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("[fetch] Request failed for %s: %v", pageURL, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("[fetch] Status %d for %s", resp.StatusCode, pageURL)
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Error("[fetch] Reading body of %s: %v", pageURL, err)
		return "", false
	}
	return string(body), true
}

// buildSearchURL constructs the search URL for one city, property type and
// page. The page parameter is omitted on page 1.
//
//	https://locamoi.fr/location?location=paris&property_types=house&page=2
func buildSearchURL(baseURL, citySlug, typeSlug string, page int) string {
	params := url.Values{}
	params.Set("location", citySlug)
	params.Set("property_types", typeSlug)
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return baseURL + "/location?" + params.Encode()
}
