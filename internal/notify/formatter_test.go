package notify

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saicode/bombalarm/internal/alert"
	"github.com/saicode/bombalarm/internal/geometry"
)

func TestCleanHTML(t *testing.T) {
	t.Run("line breaks become newlines", func(t *testing.T) {
		assert.Equal(t, "a\nb\nc\nd", CleanHTML("a<br>b<br/>c<br />d"))
	})

	t.Run("bold tags become markdown", func(t *testing.T) {
		assert.Equal(t, "**Achtung** Sperrung", CleanHTML("<b>Achtung</b> Sperrung"))
	})

	t.Run("other tags are removed", func(t *testing.T) {
		assert.Equal(t, "Hinweis text", CleanHTML(`<p>Hinweis <a href="x">text</a></p>`))
	})

	t.Run("excessive newlines collapse to two", func(t *testing.T) {
		assert.Equal(t, "a\n\nb", CleanHTML("a\n\n\n\n\nb"))
		assert.Equal(t, "a\n\nb", CleanHTML("a<br><br><br>b"))
	})

	t.Run("plain text passes through", func(t *testing.T) {
		assert.Equal(t, "Bombenfund in Bremen", CleanHTML("Bombenfund in Bremen"))
	})
}

func TestThreadTitle(t *testing.T) {
	t.Run("short title untouched", func(t *testing.T) {
		assert.Equal(t, "Bombenalarm - Bombenfund", ThreadTitle("Bombenfund"))
	})

	t.Run("long title truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("a", 40)
		got := ThreadTitle(long)
		assert.Equal(t, "Bombenalarm - "+strings.Repeat("a", 30)+"...", got)
	})

	t.Run("exactly at the limit is not truncated", func(t *testing.T) {
		title := strings.Repeat("a", 30)
		assert.Equal(t, "Bombenalarm - "+title, ThreadTitle(title))
	})

	t.Run("truncation counts runes", func(t *testing.T) {
		long := strings.Repeat("ä", 40)
		got := ThreadTitle(long)
		assert.Equal(t, "Bombenalarm - "+strings.Repeat("ä", 30)+"...", got)
	})
}

func TestFormatTimestamp(t *testing.T) {
	t.Run("german date format", func(t *testing.T) {
		got := FormatTimestamp("09.03.2023 11:43:53")

		expected, err := time.ParseInLocation("02.01.2006 15:04:05", "09.03.2023 11:43:53", time.Local)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("<t:%d:f>", expected.Unix()), got)
	})

	t.Run("iso format with zone suffix", func(t *testing.T) {
		got := FormatTimestamp("2023-03-09T11:43:53Z")
		assert.True(t, strings.HasPrefix(got, "<t:"))
		assert.True(t, strings.HasSuffix(got, ":f>"))
	})

	t.Run("unparseable text passes through", func(t *testing.T) {
		assert.Equal(t, "not a date", FormatTimestamp("not a date"))
	})

	t.Run("sentinel passes through", func(t *testing.T) {
		assert.Equal(t, alert.NotAvailable, FormatTimestamp(alert.NotAvailable))
	})
}

func TestMapEditorLink(t *testing.T) {
	link := MapEditorLink(geometry.Point{Longitude: 8.55, Latitude: 53.225}, 12)
	assert.Equal(t, "https://www.waze.com/de/editor?env=row&lat=53.225&lon=8.55&zoomLevel=12", link)
}

func TestRender(t *testing.T) {
	baseAlert := func() *alert.Alert {
		return &alert.Alert{
			ID:         "42",
			Title:      "<b>Bombenfund</b> in Bremen",
			Details:    "Entschärfung läuft<br>Bitte Bereich meiden",
			ValidFrom:  "09.03.2023 11:43:53",
			ValidUntil: alert.NotAvailable,
			Area:       alert.NotAvailable,
			Sender:     "Feuerwehr Bremen",
		}
	}

	t.Run("text-only notification", func(t *testing.T) {
		payload := Render(baseAlert(), nil, "")

		assert.Equal(t, "Bombenalarm - **Bombenfund** in Bremen", payload.ThreadName)
		require.Len(t, payload.Embeds, 1)
		embed := payload.Embeds[0]

		assert.Equal(t, "**Bombenfund** in Bremen", embed.Title)
		assert.Equal(t, "Entschärfung läuft\nBitte Bereich meiden", embed.Description)
		assert.Equal(t, 15158332, embed.Color)

		require.Len(t, embed.Fields, 3)
		assert.Equal(t, "Gültig von", embed.Fields[0].Name)
		assert.True(t, strings.HasPrefix(embed.Fields[0].Value, "<t:"))
		assert.True(t, embed.Fields[0].Inline)
		assert.Equal(t, "Gültig bis", embed.Fields[1].Name)
		assert.Equal(t, alert.NotAvailable, embed.Fields[1].Value)
		assert.Equal(t, "Absender", embed.Fields[2].Name)
		assert.Equal(t, "Feuerwehr Bremen", embed.Fields[2].Value)
		assert.False(t, embed.Fields[2].Inline)

		require.NotNil(t, embed.Footer)
		assert.Equal(t, "Alarm-ID: 42", embed.Footer.Text)
		assert.Nil(t, embed.Image)
	})

	t.Run("map editor link adds a field", func(t *testing.T) {
		link := "https://www.waze.com/de/editor?env=row&lat=53.225&lon=8.55&zoomLevel=12"
		payload := Render(baseAlert(), nil, link)

		embed := payload.Embeds[0]
		require.Len(t, embed.Fields, 4)
		assert.Equal(t, "Waze Map Editor", embed.Fields[3].Name)
		assert.Equal(t, link, embed.Fields[3].Value)
	})

	t.Run("map image flags the attachment reference", func(t *testing.T) {
		payload := Render(baseAlert(), []byte("png"), "")

		embed := payload.Embeds[0]
		require.NotNil(t, embed.Image)
		assert.Equal(t, "attachment://map.png", embed.Image.URL)
	})
}
