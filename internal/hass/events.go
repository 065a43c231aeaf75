package hass

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SubscribeEvents opens the host's server-sent event stream restricted to
// state-changed events. Events are delivered on a bounded channel until the
// stream ends or cancel is called; when the channel is full further events
// are dropped rather than blocking the reader. Cancel is safe to call more
// than once.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan StateEvent, func(), error) {
	if c == nil {
		return nil, nil, fmt.Errorf("client is nil")
	}

	ctx, cancel := context.WithCancel(ctx)

	values := url.Values{}
	values.Set("restrict", EventStateChanged)
	rel := &url.URL{Path: "/api/stream", RawQuery: values.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	// The stream outlives the client's request timeout, so use a dedicated
	// transport-sharing client without one.
	streamClient := &http.Client{Transport: c.http.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("open event stream: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		cancel()
		return nil, nil, decodeAPIError(resp)
	}

	ch := make(chan StateEvent, 64)
	go func() {
		defer close(ch)
		defer func() { _ = resp.Body.Close() }()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		var dataLines []string

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				if len(dataLines) == 0 {
					continue
				}
				payload := strings.Join(dataLines, "\n")
				dataLines = dataLines[:0]
				var event StateEvent
				if err := json.Unmarshal([]byte(payload), &event); err == nil {
					select {
					case ch <- event:
					case <-ctx.Done():
						return
					// A consumer that stopped draining must not stall the
					// stream; excess events are dropped and the watcher's
					// reconnect state check recovers anything missed.
					default:
					}
				}
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(line[len("data:"):]))
			}
		}
	}()

	return ch, cancel, nil
}
