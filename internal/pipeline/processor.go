// Package pipeline drives the poll cycle: fetching feed records,
// selecting new bomb-related alerts, enriching them with map material
// and delivering them to the configured webhook.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/apex/log"

	"github.com/saicode/bombalarm/internal/alert"
	"github.com/saicode/bombalarm/internal/biwapp"
	"github.com/saicode/bombalarm/internal/discord"
	"github.com/saicode/bombalarm/internal/geometry"
	"github.com/saicode/bombalarm/internal/notify"
	"github.com/saicode/bombalarm/internal/store"
)

const csvFileName = "alerts.csv"

// MapRenderer produces a static map image for an alert polygon.
type MapRenderer interface {
	RenderStaticMap(ctx context.Context, poly *geometry.Polygon, zoom int) ([]byte, error)
}

// Deliverer sends a rendered notification, optionally with a map image.
type Deliverer interface {
	Send(ctx context.Context, payload *discord.WebhookPayload, image []byte) error
}

// SentRecorder tracks which alert IDs have already been delivered.
type SentRecorder interface {
	Contains(id string) bool
	RecordSent(id string) error
}

// Processor turns a batch of raw feed records into webhook deliveries.
type Processor struct {
	Maps          MapRenderer // nil disables map rendering
	Webhook       Deliverer
	Sent          SentRecorder
	StateDir      string
	DeliveryDelay time.Duration
}

// ProcessRecords filters a feed batch down to new bomb-related alerts
// and delivers each one. It returns the number of alerts delivered.
// An alert ID is only recorded as sent after its delivery succeeded,
// so failed deliveries are retried on the next poll.
func (p *Processor) ProcessRecords(ctx context.Context, records []biwapp.Record) (int, error) {
	fresh := p.selectNew(records)
	if len(fresh) == 0 {
		return 0, nil
	}

	log.Infof("found %d new bomb-related alerts", len(fresh))

	csvPath := filepath.Join(p.StateDir, csvFileName)
	if err := store.WriteCSV(csvPath, fresh); err != nil {
		log.Errorf("failed to write %s: %v", csvPath, err)
	}

	delivered := 0
	for i, a := range fresh {
		if i > 0 && p.DeliveryDelay > 0 {
			select {
			case <-ctx.Done():
				return delivered, ctx.Err()
			case <-time.After(p.DeliveryDelay):
			}
		}

		if err := p.deliver(ctx, a); err != nil {
			deliveryFailures.Inc()
			log.Errorf("failed to deliver alert %s: %v", a.ID, err)
			continue
		}

		alertsDelivered.Inc()
		delivered++

		if err := p.Sent.RecordSent(a.ID); err != nil {
			log.Errorf("failed to record alert %s as sent: %v", a.ID, err)
		}
	}

	return delivered, nil
}

// selectNew keeps the siren-category records that normalize to a
// bomb-related alert not seen before. Order within the batch is
// preserved.
func (p *Processor) selectNew(records []biwapp.Record) []*alert.Alert {
	var fresh []*alert.Alert
	for _, rec := range records {
		if !biwapp.IsSirenCategory(rec) {
			continue
		}

		a, ok := biwapp.Normalize(rec)
		if !ok {
			continue
		}

		if alert.IsAllClear(a.Title, a.Details) {
			alertsSkipped.WithLabelValues(skipAllClear).Inc()
			continue
		}
		if !alert.IsBombRelated(a.Title, a.Details) {
			alertsSkipped.WithLabelValues(skipNotBombRelated).Inc()
			continue
		}

		if p.Sent.Contains(a.ID) {
			alertsSkipped.WithLabelValues(skipDuplicate).Inc()
			continue
		}

		fresh = append(fresh, a)
	}
	return fresh
}

// deliver enriches a single alert and posts it to the webhook. Map
// material is best effort: a missing or unrenderable polygon only
// drops the image and editor link, never the notification.
func (p *Processor) deliver(ctx context.Context, a *alert.Alert) error {
	var mapImage []byte
	var editorLink string

	if poly := geometry.ParsePolygon(a.Area); poly != nil {
		zoom := geometry.CalculateZoom(poly.Coordinates)
		editorLink = notify.MapEditorLink(poly.Center, zoom)

		if p.Maps != nil {
			image, err := p.Maps.RenderStaticMap(ctx, poly, zoom)
			if err != nil {
				log.Warnf("failed to render map for alert %s: %v", a.ID, err)
			} else {
				mapImage = image
			}
		}
	}

	payload := notify.Render(a, mapImage, editorLink)
	return p.Webhook.Send(ctx, payload, mapImage)
}
