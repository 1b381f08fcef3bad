package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// attachmentName is the filename of the uploaded map image; the embed's
// image reference must point at the same name.
const attachmentName = "map.png"

// Webhook posts notification payloads to a Discord webhook URL.
type Webhook struct {
	url        string
	httpClient *http.Client
}

// NewWebhook creates a webhook client.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send delivers the payload. Without an image it posts plain JSON; with one
// it posts multipart form data carrying the payload alongside the file, the
// combined form Discord requires for uploads.
//
// A non-2xx response is returned as an error including the endpoint's
// diagnostic text, and the caller must not mark the alert as sent.
func (w *Webhook) Send(ctx context.Context, payload *WebhookPayload, image []byte) error {
	var req *http.Request
	var err error

	if len(image) > 0 {
		req, err = w.newMultipartRequest(ctx, payload, image)
	} else {
		req, err = w.newJSONRequest(ctx, payload)
	}
	if err != nil {
		return err
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "webhook request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("webhook returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return nil
}

func (w *Webhook) newJSONRequest(ctx context.Context, payload *WebhookPayload) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

func (w *Webhook) newMultipartRequest(ctx context.Context, payload *WebhookPayload, image []byte) (*http.Request, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode webhook payload")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("payload_json", string(payloadJSON)); err != nil {
		return nil, errors.Wrap(err, "failed to write payload_json part")
	}

	part, err := writer.CreateFormFile("file", attachmentName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file part")
	}
	if _, err := part.Write(image); err != nil {
		return nil, errors.Wrap(err, "failed to write image part")
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, &body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create webhook request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req, nil
}
