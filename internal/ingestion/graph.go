// Package ingestion pulls resumes from a Microsoft Graph drive folder and
// feeds them into the extraction pipeline.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	graphAPIURL = "https://graph.microsoft.com/v1.0"
	graphScope  = "https://graph.microsoft.com/.default"

	tokenURLFormat = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
)

// DriveItem is the subset of a Graph drive item the watcher needs. File is
// non-nil only for file entries, mirroring the API's facet convention.
type DriveItem struct {
	ID   string         `mapstructure:"id"`
	Name string         `mapstructure:"name"`
	File map[string]any `mapstructure:"file"`
}

func (d DriveItem) IsFile() bool {
	return d.File != nil
}

// Client is a minimal Microsoft Graph drive client. Token refresh lives in
// the injected HTTP client, so there is no package-level credential state.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

func NewClient(httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		logger:     logger,
		HTTPClient: httpClient,
		APIURL:     graphAPIURL,
	}
}

// OAuthHTTPClient builds an HTTP client that authenticates with the Graph API
// through the client-credentials grant. Tokens are cached and refreshed by
// the underlying token source.
func OAuthHTTPClient(ctx context.Context, tenantID, clientID, clientSecret string) *http.Client {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf(tokenURLFormat, tenantID),
		Scopes:       []string{graphScope},
	}
	return cfg.Client(ctx)
}

// ListFolderChildren returns the items directly under a drive folder.
func (c *Client) ListFolderChildren(ctx context.Context, driveID, folderID string) ([]DriveItem, error) {
	url := fmt.Sprintf("%s/drives/%s/items/%s/children", c.APIURL, driveID, folderID)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Value []map[string]any `json:"value"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode folder listing: %w", err)
	}

	items := make([]DriveItem, 0, len(envelope.Value))
	for _, raw := range envelope.Value {
		var item DriveItem
		if err := mapstructure.Decode(raw, &item); err != nil {
			c.logger.Warn("skipping undecodable drive item", zap.Error(err))
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// DownloadItem fetches the raw content of a drive item.
func (c *Client) DownloadItem(ctx context.Context, driveID, itemID string) ([]byte, error) {
	url := fmt.Sprintf("%s/drives/%s/items/%s/content", c.APIURL, driveID, itemID)
	return c.get(ctx, url)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph request %s: bad status: %s", url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
