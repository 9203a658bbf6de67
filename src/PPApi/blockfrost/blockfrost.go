package blockfrost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/proposalpal/proposalpal/src/PPApi/errs"
)

// LovelaceUnit is the asset unit name Blockfrost uses for the native
// currency amount in transaction outputs.
const LovelaceUnit = "lovelace"

type Client struct {
	projectID string
	baseURL   string
	client    *http.Client
}

func NewClient(projectID string, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://cardano-mainnet.blockfrost.io/api/v0"
	}

	return &Client{
		projectID: projectID,
		baseURL:   baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type TxAmount struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

type TxOutput struct {
	Address string     `json:"address"`
	Amount  []TxAmount `json:"amount"`
}

type TxUTXOs struct {
	Hash    string     `json:"hash"`
	Outputs []TxOutput `json:"outputs"`
}

// TxUTXOs fetches the transaction's outputs. A provider 404 means the
// transaction is unknown or not yet confirmed and maps to ErrNotFound.
func (c *Client) TxUTXOs(ctx context.Context, txHash string) (*TxUTXOs, error) {
	url := fmt.Sprintf("%s/txs/%s/utxos", c.baseURL, txHash)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("project_id", c.projectID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: blockfrost: %v", errs.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errs.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: blockfrost status %d: %s", errs.ErrProvider, resp.StatusCode, string(body))
	}

	var out TxUTXOs
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: blockfrost decode: %v", errs.ErrProvider, err)
	}
	return &out, nil
}
