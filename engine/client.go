package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/greenexweb/kapturasync/models"
)

// SyncData is the remote authority's catalog payload. Missing arrays are
// treated as empty, not as an error.
type SyncData struct {
	Locations []models.Location `json:"locacions"`
	Persons   []models.Person   `json:"personals"`
}

// BulkAttendance is one entry of the push batch. LocalID is the correlation
// key that makes re-submission idempotent on the remote side.
type BulkAttendance struct {
	PersonID   int64  `json:"personal_id"`
	LocationID int64  `json:"location_id"`
	Timestamp  string `json:"timestamp"`
	LocalID    int64  `json:"local_id"`
}

// RemoteAuthority is the engine's view of the server that owns the
// reference catalogs and receives attendance batches.
type RemoteAuthority interface {
	FetchSyncData(ctx context.Context) (*SyncData, error)
	PushAttendances(ctx context.Context, batch []BulkAttendance) error
}

// Client talks HTTP/JSON to the remote authority.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a remote authority client. The timeout bounds each
// request in addition to any context deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// FetchSyncData retrieves the full Location and Person catalogs.
func (c *Client) FetchSyncData(ctx context.Context) (*SyncData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/sync-data", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync-data request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync-data request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sync-data request returned status %d", resp.StatusCode)
	}

	var data SyncData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode sync-data response: %w", err)
	}
	return &data, nil
}

// PushAttendances submits the whole batch in a single bulk request. Any 2xx
// response is full acceptance; anything else fails the batch as a whole.
func (c *Client) PushAttendances(ctx context.Context, batch []BulkAttendance) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode attendance batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/attendances/bulk", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build bulk attendance request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("bulk attendance request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bulk attendance request returned status %d", resp.StatusCode)
	}
	return nil
}

// Connectivity is the boolean network gate consulted before a sync.
// Reachability detection itself is an external collaborator.
type Connectivity interface {
	Online() bool
}

// ConnectivityFunc adapts a plain function to the Connectivity interface.
type ConnectivityFunc func() bool

func (f ConnectivityFunc) Online() bool { return f() }

// NewDialProbe returns a Connectivity gate that attempts a short TCP dial
// to the remote authority's host.
func NewDialProbe(baseURL string, timeout time.Duration) ConnectivityFunc {
	return func() bool {
		u, err := url.Parse(baseURL)
		if err != nil || u.Host == "" {
			return false
		}
		host := u.Host
		if u.Port() == "" {
			port := "443"
			if u.Scheme == "http" {
				port = "80"
			}
			host = net.JoinHostPort(u.Hostname(), port)
		}
		conn, err := net.DialTimeout("tcp", host, timeout)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}
