package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/govgpt/govgpt/internal/models"
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// MastodonClient fetches public posts from a Mastodon instance.
type MastodonClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewMastodonClient creates a client for the given instance, e.g.
// "mastodon.social". instanceURL may be a full URL (used in tests).
func NewMastodonClient(instanceURL, accessToken string) *MastodonClient {
	if !strings.HasPrefix(instanceURL, "http") {
		instanceURL = "https://" + instanceURL
	}
	return &MastodonClient{
		baseURL:     strings.TrimRight(instanceURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type mastodonStatus struct {
	Content   string `json:"content"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	Account   struct {
		Acct string `json:"acct"`
	} `json:"account"`
}

type mastodonSearchResponse struct {
	Statuses []mastodonStatus `json:"statuses"`
}

// Search returns up to limit public statuses matching the query, with HTML
// markup stripped from their content.
func (c *MastodonClient) Search(ctx context.Context, query string, limit int) ([]models.SocialPost, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "statuses")
	params.Set("limit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v2/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build mastodon request: %w", err)
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mastodon request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mastodon returned status %d", resp.StatusCode)
	}

	var body mastodonSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode mastodon response: %w", err)
	}

	posts := make([]models.SocialPost, 0, len(body.Statuses))
	for _, s := range body.Statuses {
		content := StripHTML(s.Content)
		if content == "" {
			continue
		}
		posts = append(posts, models.SocialPost{
			Platform:  "mastodon",
			Author:    s.Account.Acct,
			Content:   content,
			URL:       s.URL,
			CreatedAt: s.CreatedAt,
		})
	}
	return posts, nil
}

// StripHTML removes markup tags and squeezes whitespace.
func StripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
