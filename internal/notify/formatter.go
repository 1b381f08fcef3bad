package notify

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/saicode/bombalarm/internal/alert"
	"github.com/saicode/bombalarm/internal/discord"
	"github.com/saicode/bombalarm/internal/geometry"
)

const (
	// threadPrefix starts every forum thread title.
	threadPrefix = "Bombenalarm - "

	// titleLimit caps the alert title inside the thread name. Longer
	// titles are cut and suffixed with an ellipsis.
	titleLimit = 30

	// embedColor is the red accent used for every alert embed.
	embedColor = 15158332
)

// dateLayouts are tried in order against the feed's validity dates; the
// first layout that parses wins.
var dateLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
}

var (
	brPattern      = regexp.MustCompile(`<br\s*/?>`)
	boldPattern    = regexp.MustCompile(`<b>(.*?)</b>`)
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	newlinePattern = regexp.MustCompile(`\n{3,}`)
)

// CleanHTML converts the feed's markup subset to Discord formatting:
// line-break tags become newlines, bold tags become **bold**, any other tag
// is removed, and runs of 3 or more newlines collapse to exactly 2.
func CleanHTML(text string) string {
	text = brPattern.ReplaceAllString(text, "\n")
	text = boldPattern.ReplaceAllString(text, "**$1**")
	text = tagPattern.ReplaceAllString(text, "")
	text = newlinePattern.ReplaceAllString(text, "\n\n")
	return text
}

// ThreadTitle builds the forum thread name from an already cleaned title.
// Truncation counts runes of the cleaned string, after markup substitution.
func ThreadTitle(cleanedTitle string) string {
	runes := []rune(cleanedTitle)
	if len(runes) > titleLimit {
		return threadPrefix + string(runes[:titleLimit]) + "..."
	}
	return threadPrefix + cleanedTitle
}

// FormatTimestamp converts a validity date into a Discord timestamp tag
// rendering as full local date and time. Unparseable values and the "N/A"
// sentinel pass through unchanged as literal text.
func FormatTimestamp(dateStr string) string {
	if dateStr == alert.NotAvailable {
		return dateStr
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, dateStr, time.Local); err == nil {
			return fmt.Sprintf("<t:%d:f>", t.Unix())
		}
	}

	return dateStr
}

// MapEditorLink builds the Waze Map Editor URL for the alert area, centered
// on the polygon centroid at the same zoom the rendered map uses.
func MapEditorLink(center geometry.Point, zoom int) string {
	return fmt.Sprintf("https://www.waze.com/de/editor?env=row&lat=%s&lon=%s&zoomLevel=%d",
		strconv.FormatFloat(center.Latitude, 'f', -1, 64),
		strconv.FormatFloat(center.Longitude, 'f', -1, 64),
		zoom,
	)
}

// Render turns a canonical alert into the delivery-ready webhook payload.
//
// mapImage and mapEditorLink are optional enrichment: a non-empty image
// adds the attachment reference to the embed, a non-empty link adds the
// map-editor field. Both absent simply yields a text-only notification.
func Render(a *alert.Alert, mapImage []byte, mapEditorLink string) *discord.WebhookPayload {
	title := CleanHTML(a.Title)
	details := CleanHTML(a.Details)

	embed := discord.Embed{
		Title:       title,
		Description: details,
		Color:       embedColor,
		Fields: []discord.EmbedField{
			{Name: "Gültig von", Value: FormatTimestamp(a.ValidFrom), Inline: true},
			{Name: "Gültig bis", Value: FormatTimestamp(a.ValidUntil), Inline: true},
			{Name: "Absender", Value: a.Sender},
		},
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Alarm-ID: %s", a.ID),
		},
	}

	if mapEditorLink != "" {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  "Waze Map Editor",
			Value: mapEditorLink,
		})
	}

	if len(mapImage) > 0 {
		embed.Image = &discord.EmbedImage{URL: "attachment://map.png"}
	}

	return &discord.WebhookPayload{
		ThreadName: ThreadTitle(title),
		Embeds:     []discord.Embed{embed},
	}
}
