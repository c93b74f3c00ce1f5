package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/govgpt/govgpt/internal/models"
)

const gdeltBaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

// maxQueryKeywords caps how many keywords feed the GDELT query: the anchor
// plus three topic terms.
const maxQueryKeywords = 4

// GDELTClient fetches news articles from the GDELT DOC 2.0 API.
type GDELTClient struct {
	baseURL    string
	anchor     string
	httpClient *http.Client
}

// NewGDELTClient creates a client. baseURL overrides the public API
// endpoint (used in tests); pass "" for the default. anchor scopes
// relevance filtering.
func NewGDELTClient(baseURL, anchor string) *GDELTClient {
	if baseURL == "" {
		baseURL = gdeltBaseURL
	}
	return &GDELTClient{
		baseURL:    baseURL,
		anchor:     strings.ToLower(anchor),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
}

type gdeltArticle struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Domain   string `json:"domain"`
	SeenDate string `json:"seendate"`
	Language string `json:"language"`
	Tone     string `json:"tone"`
}

// Search fetches articles matching the keywords within the lookback window.
// Results are filtered to ones that actually reference the anchor topic.
func (c *GDELTClient) Search(ctx context.Context, keywords []string, lookbackDays, maxResults int) ([]models.NewsItem, error) {
	query := c.buildQuery(keywords)

	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "ArtList")
	params.Set("maxrecords", fmt.Sprintf("%d", maxResults))
	params.Set("format", "json")
	params.Set("timespan", fmt.Sprintf("%dd", lookbackDays))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build GDELT request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GDELT request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GDELT returned status %d", resp.StatusCode)
	}

	var body gdeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode GDELT response: %w", err)
	}

	items := make([]models.NewsItem, 0, len(body.Articles))
	for _, a := range body.Articles {
		item := models.NewsItem{
			Title:       a.Title,
			URL:         a.URL,
			Domain:      a.Domain,
			PublishedAt: a.SeenDate,
			Tone:        parseTone(a.Tone),
		}
		if !c.relevant(item) {
			continue
		}
		items = append(items, item)
		if len(items) >= maxResults {
			break
		}
	}
	return items, nil
}

// buildQuery joins the anchor and up to three topic keywords.
func (c *GDELTClient) buildQuery(keywords []string) string {
	parts := []string{c.anchor}
	for _, kw := range keywords {
		if strings.EqualFold(kw, c.anchor) {
			continue
		}
		parts = append(parts, kw)
		if len(parts) >= maxQueryKeywords {
			break
		}
	}
	return strings.Join(parts, " ")
}

// relevant keeps only articles that reference the anchor topic in their
// title, URL, or domain. GDELT keyword queries are broad; this trims
// off-topic hits.
func (c *GDELTClient) relevant(item models.NewsItem) bool {
	if c.anchor == "" {
		return true
	}
	haystack := strings.ToLower(item.Title + " " + item.URL + " " + item.Domain)
	return strings.Contains(haystack, c.anchor)
}

func parseTone(s string) float64 {
	var tone float64
	if s == "" {
		return 0
	}
	if _, err := fmt.Sscanf(s, "%f", &tone); err != nil {
		return 0
	}
	return tone
}
