package harness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WaitForEndpoint polls the endpoint until it accepts connections, or the timeout elapses. Any
// HTTP response counts, even an error status, since many APIs do not serve anything at their
// base URL. Progress dots are written to output.
func (c *Client) WaitForEndpoint(ctx context.Context, timeout time.Duration, output io.Writer) error {
	_, _ = fmt.Fprintf(output, "Connecting to API at %s", c.baseURL)

	deadline := time.Now().Add(timeout)
	for {
		_, _ = fmt.Fprintf(output, ".")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
		if err != nil {
			_, _ = fmt.Fprintln(output)
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			_, _ = fmt.Fprintf(output, " HTTP %d\n", resp.StatusCode)
			return nil
		}
		if !time.Now().Before(deadline) {
			_, _ = fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(output)
			return ctx.Err()
		case <-time.After(time.Millisecond * 100):
		}
	}
}
