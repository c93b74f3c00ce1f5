package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/govgpt/govgpt/internal/models"
)

const youtubeBaseURL = "https://www.googleapis.com/youtube/v3/search"

// YouTubeClient searches topic videos via the YouTube Data API.
type YouTubeClient struct {
	baseURL    string
	apiKey     string
	region     string
	httpClient *http.Client
}

// NewYouTubeClient creates a client. An empty API key is an error; the
// caller leaves the video source nil in that case and the aggregator treats
// it as disabled.
func NewYouTubeClient(baseURL, apiKey, region string) (*YouTubeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube API key is required")
	}
	if baseURL == "" {
		baseURL = youtubeBaseURL
	}
	return &YouTubeClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		region:     region,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search returns up to maxResults videos matching the query.
func (c *YouTubeClient) Search(ctx context.Context, query string, maxResults int) ([]models.VideoItem, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	params.Set("key", c.apiKey)
	if c.region != "" {
		params.Set("regionCode", c.region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build youtube request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube returned status %d", resp.StatusCode)
	}

	var body youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode youtube response: %w", err)
	}

	videos := make([]models.VideoItem, 0, len(body.Items))
	for _, item := range body.Items {
		videos = append(videos, models.VideoItem{
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Channel:     item.Snippet.ChannelTitle,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}
	return videos, nil
}
