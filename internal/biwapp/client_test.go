package biwapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchNews_FlatList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "allPWA", r.PostFormValue("location"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "title": "Alert 1"}, {"id": 2, "title": "Alert 2"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "allPWA")
	records, err := client.FetchNews(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Alert 1", records[0]["title"])
	assert.Equal(t, "Alert 2", records[1]["title"])
}

func TestFetchNews_WrappedList(t *testing.T) {
	wrappers := []string{"items", "data", "news", "messages"}

	for _, key := range wrappers {
		t.Run(key, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"` + key + `": [{"id": "a"}]}`))
			}))
			defer server.Close()

			client := NewClient(server.URL, "allPWA")
			records, err := client.FetchNews(context.Background())
			require.NoError(t, err)

			require.Len(t, records, 1)
			assert.Equal(t, "a", records[0]["id"])
		})
	}
}

func TestFetchNews_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "allPWA")
	_, err := client.FetchNews(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
	assert.Contains(t, err.Error(), "upstream broken")
}

func TestFetchNews_UnknownShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "allPWA")
	_, err := client.FetchNews(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record list")
}

func TestFetchNews_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "allPWA")
	_, err := client.FetchNews(context.Background())
	require.Error(t, err)
}
