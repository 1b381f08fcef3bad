package biwapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// DefaultFeedURL is the public BIWAPP widget proxy.
const DefaultFeedURL = "https://www.biwapp.de/widget/dataBiwappProxy"

// listKeys are the alternate top-level keys under which the feed may nest
// its record list, tried in order.
var listKeys = []string{"items", "data", "news", "messages"}

// Client fetches raw alert records from the BIWAPP feed.
type Client struct {
	feedURL    string
	location   string
	httpClient *http.Client
}

// NewClient creates a feed client for the given endpoint and location filter.
func NewClient(feedURL, location string) *Client {
	return &Client{
		feedURL:  feedURL,
		location: location,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchNews polls the feed once and returns the raw records it carries.
//
// The response body is either a flat JSON array of records or an object
// exposing the array under one of the alternate list keys; both shapes are
// accepted. Any transport, HTTP, or decode failure is returned as an error
// and means no alerts are processed this cycle.
func (c *Client) FetchNews(ctx context.Context) ([]Record, error) {
	form := url.Values{}
	form.Set("location", c.location)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.feedURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create feed request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "feed request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Errorf("feed returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read feed response")
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}

	log.Debugf("fetched %d feed records", len(records))
	return records, nil
}

// decodeRecords accepts either a top-level array of records or an object
// that nests the array under items/data/news/messages (first match wins).
func decodeRecords(body []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, errors.Wrap(err, "failed to parse feed response")
	}

	for _, key := range listKeys {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
	}

	return nil, errors.New("could not find record list in feed response")
}
