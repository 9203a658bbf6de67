package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/proposalpal/proposalpal/src/PPApi/errs"
)

// Client searches the Cardano community forum (Discourse) for posts
// discussing a CIP and fetches their raw bodies.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://forum.cardano.org"
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type searchResponse struct {
	GroupedSearchResult struct {
		PostIDs []int64 `json:"post_ids"`
	} `json:"grouped_search_result"`
}

func (c *Client) SearchPostIDs(ctx context.Context, query string) ([]int64, error) {
	u := fmt.Sprintf("%s/search.json?q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: forum search: %v", errs.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errs.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: forum search status %d", errs.ErrProvider, resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: forum search decode: %v", errs.ErrProvider, err)
	}
	return out.GroupedSearchResult.PostIDs, nil
}

type postResponse struct {
	Raw string `json:"raw"`
}

func (c *Client) PostRaw(ctx context.Context, postID int64) (string, error) {
	u := fmt.Sprintf("%s/posts/%d.json", c.baseURL, postID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: forum post: %v", errs.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: forum post %d status %d", errs.ErrProvider, postID, resp.StatusCode)
	}

	var out postResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: forum post decode: %v", errs.ErrProvider, err)
	}
	return out.Raw, nil
}
