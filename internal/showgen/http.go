package showgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/lightshow/internal/domain/model"
)

type result int

const (
	resultSuccess result = iota
	resultDuplicate
	resultFailed
)

// eventBody is the POST /events payload.
type eventBody struct {
	EventID    string         `json:"event_id"`
	Type       int            `json:"type"`
	Value      int            `json:"value"`
	Time       float64        `json:"time"`
	CustomData map[string]any `json:"custom_data,omitempty"`
}

// AckResponse represents the response from event submission.
type AckResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// getJSON performs a GET request and decodes the JSON response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// post performs a POST request with a JSON body.
func (c *HTTPClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// submitEvents posts events concurrently, shifting every event by offset
// beats.
func submitEvents(ctx context.Context, cfg *Config, client *HTTPClient, events []model.Event, offset float64, stats *Stats) {
	log.Printf("submitting %d events with %d workers", len(events), cfg.Workers)

	var successful, duplicate, failed, submitted atomic.Int64

	eventChan := make(chan model.Event, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range eventChan {
				submitted.Add(1)
				switch submitSingleEvent(ctx, client, ev, offset) {
				case resultSuccess:
					successful.Add(1)
				case resultDuplicate:
					duplicate.Add(1)
				case resultFailed:
					failed.Add(1)
				}
				if cfg.Verbose {
					log.Printf("progress: %d/%d submitted", submitted.Load(), len(events))
				}
			}
		}()
	}

	go func() {
		defer close(eventChan)
		for _, ev := range events {
			select {
			case <-ctx.Done():
				return
			case eventChan <- ev:
			}
		}
	}()
	wg.Wait()

	stats.EventsSubmitted = int(submitted.Load())
	stats.EventsSuccessful = int(successful.Load())
	stats.EventsDuplicate = int(duplicate.Load())
	stats.EventsFailed = int(failed.Load())

	log.Printf("event submission completed: successful=%d duplicate=%d failed=%d",
		stats.EventsSuccessful, stats.EventsDuplicate, stats.EventsFailed)
}

func submitSingleEvent(ctx context.Context, client *HTTPClient, ev model.Event, offset float64) result { //nolint:gocritic // hugeParam: events are values
	resp, err := client.post(ctx, "/events", eventBody{
		EventID:    ev.ID,
		Type:       ev.Type,
		Value:      ev.Value,
		Time:       ev.Time + offset,
		CustomData: ev.Custom.Map(),
	})
	if err != nil {
		return resultFailed
	}
	defer resp.Body.Close()

	var ack AckResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return resultFailed
	}
	switch {
	case resp.StatusCode == StatusAccepted:
		return resultSuccess
	case resp.StatusCode == StatusOK && ack.Duplicate:
		return resultDuplicate
	default:
		return resultFailed
	}
}
