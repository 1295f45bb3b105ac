package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"btc-pulse/internal/domain"

	"github.com/cenkalti/backoff/v5"
)

// fetchJSON performs a GET with exponential backoff (1s initial, doubling)
// and decodes the response body into out. Non-2xx responses surface as
// domain.HTTPError so callers can inspect the status. Blocked statuses
// (403/429/451) stop the retry loop immediately; there is no point hammering
// a source that refuses to serve us.
func fetchJSON(ctx context.Context, client *http.Client, url string, maxTries uint, out any) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.Multiplier = 2

	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		return doGet(ctx, client, url)
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Printf("request failed (%s), retrying in %s: %v", url, next, err)
		}),
	)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}

func doGet(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		httpErr := &domain.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
		if domain.IsBlockedStatus(httpErr) {
			return nil, backoff.Permanent(httpErr)
		}
		return nil, httpErr
	}

	return io.ReadAll(resp.Body)
}
