package producer

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/franz/music-collector/internal/util"
)

// fetchPage performs a GET with the configured User-Agent and bounded
// timeout, returning the response body. Callers own error handling;
// every failure maps to "this source yields nothing this run".
func fetchPage(ctx context.Context, cfg Config, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := cfg.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrProducerFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status %d for %s", util.ErrProducerFetch, resp.StatusCode, url)
	}

	return resp.Body, nil
}
