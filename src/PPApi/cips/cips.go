package cips

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/proposalpal/proposalpal/src/PPApi/errs"
)

// Client fetches raw CIP documents from the CIP repository host.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://raw.githubusercontent.com/cardano-foundation/CIPs/refs/heads/master"
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Readme returns the CIP's README markdown. 404 from the host means the
// CIP does not exist and maps to ErrNotFound.
func (c *Client) Readme(ctx context.Context, cipNumber string) (string, error) {
	url := fmt.Sprintf("%s/%s/README.md", c.baseURL, cipNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: cip host: %v", errs.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", errs.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: cip host status %d", errs.ErrProvider, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: cip host: %v", errs.ErrProvider, err)
	}
	return string(body), nil
}
