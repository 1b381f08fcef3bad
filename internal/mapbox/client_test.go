package mapbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saicode/bombalarm/internal/geometry"
)

func testPolygon() *geometry.Polygon {
	return &geometry.Polygon{
		Coordinates: []geometry.Point{
			{Longitude: 8.5, Latitude: 53.2},
			{Longitude: 8.6, Latitude: 53.2},
			{Longitude: 8.6, Latitude: 53.3},
		},
		Center: geometry.Point{Longitude: 8.55, Latitude: 53.225},
	}
}

func TestRenderStaticMap(t *testing.T) {
	imageBytes := []byte("fake-png-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "false", r.URL.Query().Get("logo"))
		assert.Equal(t, "false", r.URL.Query().Get("attribution"))

		// Path carries the overlay, center, zoom and dimensions
		assert.Contains(t, r.URL.Path, "/styles/v1/mapbox/streets-v11/static/")
		assert.Contains(t, r.URL.Path, "8.55,53.225,10")
		assert.True(t, strings.HasSuffix(r.URL.Path, "/1280x720"))

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(imageBytes)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	image, err := client.RenderStaticMap(context.Background(), testPolygon(), 10)
	require.NoError(t, err)
	assert.Equal(t, imageBytes, image)
}

func TestRenderStaticMap_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"quota exceeded"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	_, err := client.RenderStaticMap(context.Background(), testPolygon(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 422")
}

func TestPolygonOverlay(t *testing.T) {
	overlay, err := polygonOverlay(testPolygon())
	require.NoError(t, err)

	var feature struct {
		Type     string         `json:"type"`
		Geometry map[string]any `json:"geometry"`
		Props    map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(overlay), &feature))

	assert.Equal(t, "Feature", feature.Type)
	assert.Equal(t, "Polygon", feature.Geometry["type"])
	assert.Equal(t, "#FF4444", feature.Props["stroke"])
	assert.Equal(t, float64(3), feature.Props["stroke-width"])
	assert.Equal(t, 0.4, feature.Props["fill-opacity"])
}
