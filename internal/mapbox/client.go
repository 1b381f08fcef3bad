package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"

	"github.com/saicode/bombalarm/internal/geometry"
)

const (
	// DefaultBaseURL is the Mapbox API root.
	DefaultBaseURL = "https://api.mapbox.com"

	// styleID is the map style used for every rendered alert area.
	styleID = "mapbox/streets-v11"

	// Rendered image dimensions.
	imageWidth  = 1280
	imageHeight = 720
)

// Polygon overlay styling, applied to every alert area.
const (
	strokeColor   = "#FF4444"
	strokeWidth   = 3
	strokeOpacity = 1.0
	fillColor     = "#FF4444"
	fillOpacity   = 0.4
)

// Client renders static map images of alert areas via the Mapbox Static
// Images API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a Mapbox client using the given access token.
func NewClient(accessToken string) *Client {
	return &Client{
		baseURL:     DefaultBaseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(accessToken, baseURL string) *Client {
	c := NewClient(accessToken)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// RenderStaticMap renders the polygon as a styled overlay centered on its
// centroid at the given zoom and returns the raw image bytes.
//
// This is best-effort enrichment: callers treat any error as "no map" and
// deliver the notification without an image.
func (c *Client) RenderStaticMap(ctx context.Context, poly *geometry.Polygon, zoom int) ([]byte, error) {
	overlay, err := polygonOverlay(poly)
	if err != nil {
		return nil, err
	}

	mapURL := fmt.Sprintf("%s/styles/v1/%s/static/geojson(%s)/%s,%s,%d/%dx%d?access_token=%s&logo=false&attribution=false",
		c.baseURL,
		styleID,
		url.QueryEscape(overlay),
		formatCoord(poly.Center.Longitude),
		formatCoord(poly.Center.Latitude),
		zoom,
		imageWidth,
		imageHeight,
		url.QueryEscape(c.accessToken),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mapURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create static map request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "static map request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Errorf("static map API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read static map image")
	}

	return image, nil
}

// polygonOverlay builds the GeoJSON feature Mapbox draws over the base map.
func polygonOverlay(poly *geometry.Polygon) (string, error) {
	ring := make([][]float64, len(poly.Coordinates))
	for i, c := range poly.Coordinates {
		ring[i] = []float64{c.Longitude, c.Latitude}
	}

	feature := geojson.NewPolygonFeature([][][]float64{ring})
	feature.SetProperty("stroke", strokeColor)
	feature.SetProperty("stroke-width", strokeWidth)
	feature.SetProperty("stroke-opacity", strokeOpacity)
	feature.SetProperty("fill", fillColor)
	feature.SetProperty("fill-opacity", fillOpacity)

	encoded, err := json.Marshal(feature)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode polygon overlay")
	}
	return string(encoded), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
