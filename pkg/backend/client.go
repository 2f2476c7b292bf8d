package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matst80/node-finder/pkg/types"
)

const defaultTimeout = 30 * time.Second

// Client reads the node inventory from the management backend's REST API.
type Client struct {
	BaseUrl    string
	HttpClient *http.Client
}

func NewClient(baseUrl string) *Client {
	return &Client{
		BaseUrl:    strings.TrimSuffix(baseUrl, "/"),
		HttpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// FetchNodes returns the whole node collection in the backend's order.
func (c *Client) FetchNodes(ctx context.Context) ([]types.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseUrl+"/api/nodes", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching nodes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK response from backend: %d", resp.StatusCode)
	}

	nodes := []types.Node{}
	if err := json.NewDecoder(resp.Body).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("error decoding nodes: %w", err)
	}
	return nodes, nil
}
