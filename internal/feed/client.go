package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/structhealth/twinview/pkg/twin"
)

// Client polls the simulator daemon's REST feed on an interval and
// hands complete snapshots to the render loop.
type Client struct {
	base     string
	interval time.Duration
	http     *http.Client
	log      zerolog.Logger
	updates  chan *twin.Snapshot
}

// NewClient creates a feed client for a daemon base URL
func NewClient(base string, interval time.Duration, log zerolog.Logger) *Client {
	return &Client{
		base:     strings.TrimRight(base, "/"),
		interval: interval,
		http:     &http.Client{Timeout: 5 * time.Second},
		log:      log,
		updates:  make(chan *twin.Snapshot, 1),
	}
}

// Updates yields decoded snapshots. The channel never blocks the
// poller: an undelivered snapshot is replaced by a newer one, so the
// consumer always applies the latest state.
func (c *Client) Updates() <-chan *twin.Snapshot {
	return c.updates
}

// Run polls until the context ends, starting with an immediate fetch
func (c *Client) Run(ctx context.Context) {
	c.pollOnce(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pollOnce(ctx)
		}
	}
}

// pollOnce fetches one snapshot. A failed poll keeps the previous data
// on screen; the next tick tries again.
func (c *Client) pollOnce(ctx context.Context) {
	snap, err := c.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.log.Warn().Err(err).Msg("feed poll failed")
		}
		return
	}
	pushLatest(c.updates, snap)
}

// Fetch retrieves one complete snapshot from the daemon
func (c *Client) Fetch(ctx context.Context) (*twin.Snapshot, error) {
	snap := &twin.Snapshot{}
	if err := c.getJSON(ctx, "/api/panels", &snap.Panels); err != nil {
		return nil, err
	}
	if err := c.getJSON(ctx, "/api/sensors", &snap.Sensors); err != nil {
		return nil, err
	}
	if err := c.getJSON(ctx, "/api/alerts", &snap.Alerts); err != nil {
		return nil, err
	}
	return snap, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Ping asks the daemon to ping a panel's hardware. The animation runs
// locally either way; this just forwards the request.
func (c *Client) Ping(ctx context.Context, panelID string) error {
	url := fmt.Sprintf("%s/api/panels/%s/ping", c.base, panelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", panelID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("ping %s: unexpected status %d", panelID, resp.StatusCode)
	}
	return nil
}

// pushLatest delivers a snapshot without blocking, dropping any
// undelivered predecessor.
func pushLatest(ch chan *twin.Snapshot, snap *twin.Snapshot) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
