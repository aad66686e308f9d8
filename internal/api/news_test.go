package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const digestJSON = `{
	"news_items": [
		{
			"title": "Fed holds rates steady",
			"summary": "No change this quarter.",
			"source": "Newswire",
			"url": "https://example.com/fed",
			"published_date": "2026-08-30",
			"effect_on_you": "Savings yields stay flat."
		}
	],
	"total_items": 1,
	"last_updated": "2026-08-30T12:00:00Z"
}`

func TestParseNewsPayloadBare(t *testing.T) {
	digest, err := parseNewsPayload([]byte(digestJSON))
	require.NoError(t, err)
	assert.Len(t, digest.NewsItems, 1)
	assert.Equal(t, "Fed holds rates steady", digest.NewsItems[0].Title)
	assert.Equal(t, 1, digest.TotalItems)
	assert.False(t, digest.FromCache)
}

func TestParseNewsPayloadWrapped(t *testing.T) {
	wrapped := `{"news_data": ` + digestJSON + `, "retrieved_from_cache": true}`
	digest, err := parseNewsPayload([]byte(wrapped))
	require.NoError(t, err)
	assert.Len(t, digest.NewsItems, 1)
	assert.True(t, digest.FromCache)
}

func TestParseNewsPayloadDoubleEncoded(t *testing.T) {
	encoded, err := json.Marshal(digestJSON)
	require.NoError(t, err)
	wrapped := `{"news_data": ` + string(encoded) + `, "retrieved_from_cache": false}`
	digest, err := parseNewsPayload([]byte(wrapped))
	require.NoError(t, err)
	assert.Len(t, digest.NewsItems, 1)
	assert.Equal(t, "2026-08-30T12:00:00Z", digest.LastUpdated)
}

func TestParseNewsPayloadGarbage(t *testing.T) {
	_, err := parseNewsPayload([]byte("not json"))
	assert.Error(t, err)
}

func TestNewsQueryParameters(t *testing.T) {
	var gotPath, gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(digestJSON))
	}), &memTokens{token: "tok"})

	digest, err := client.News(context.Background(), "tech, energy", true)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/news/", gotPath)
	assert.Contains(t, gotQuery, "force_reload=true")
	assert.Contains(t, gotQuery, "topics=")
	assert.Len(t, digest.NewsItems, 1)
}
