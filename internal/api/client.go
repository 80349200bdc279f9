package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fluxtrack/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const weekTargetCacheExpireSeconds = 60 * 60

// Client is the single transport boundary towards the tracker backend.
// All store packages go through it; nothing else performs HTTP calls.
type Client struct {
	baseURL         string
	authToken       string
	httpClient      *http.Client
	metrics         *metrics.Manager
	weekTargetCache *freecache.Cache
}

func NewClient(
	baseURL string,
	authToken string,
	httpClient *http.Client,
	metricsManager *metrics.Manager,
) *Client {
	megabyte := 1024 * 1024
	return &Client{
		baseURL:         baseURL,
		authToken:       authToken,
		httpClient:      httpClient,
		metrics:         metricsManager,
		weekTargetCache: freecache.NewCache(1 * megabyte),
	}
}

// request performs one HTTP call and decodes the JSON response into out
// (skipped when out is nil or the body is empty, e.g. 204). Non-2xx
// responses come back as *Error. A call cancelled through ctx fails with
// an error recognizable via IsCancelled and is never turned into *Error.
func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	log.Tracef("api request: %s %s", method, path)

	c.metrics.GaugeRequestsInFlight.Inc()
	defer c.metrics.GaugeRequestsInFlight.Dec()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.metrics.CounterCancelledRequests.Inc()
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return fmt.Errorf("%s %s: http client do: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.metrics.HistogramRequestDuration.
		WithLabelValues(method).
		Observe(time.Since(start).Seconds())
	c.metrics.CounterApiRequests.
		WithLabelValues(method, strconv.Itoa(resp.StatusCode)).
		Inc()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.metrics.CounterCancelledRequests.Inc()
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return fmt.Errorf("%s %s: read response body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(resp.StatusCode, respBytes)
		log.Debugf("api request %s %s failed: %s", method, path, apiErr)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(respBytes) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("%s %s: unmarshal response: %w", method, path, err)
	}

	return nil
}
