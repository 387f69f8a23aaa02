package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/sales-data-pipeline/internal/apiclient"
)

const samplePayload = `[
	{"id": 1, "name": "Leanne Graham", "username": "Bret", "email": "Sincere@april.biz",
	 "address": {"geo": {"lat": "-37.3159", "lng": "81.1496"}}},
	{"id": 2, "name": "Ervin Howell", "username": "Antonette", "email": "Shanna@melissa.tv",
	 "address": {"geo": {"lat": "-43.9509", "lng": "-34.4618"}}}
]`

func TestParseFlattensUsers(t *testing.T) {
	records, err := Parse([]byte(samplePayload))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].CustomerID)
	assert.Equal(t, "Leanne Graham", records[0].Name)
	assert.Equal(t, "Bret", records[0].UserName)
	assert.Equal(t, "Sincere@april.biz", records[0].Email)
	assert.InDelta(t, -37.3159, records[0].Lat, 1e-9)
	assert.InDelta(t, 81.1496, records[0].Lng, 1e-9)

	// Output order matches input order.
	assert.Equal(t, 2, records[1].CustomerID)
}

func TestParseRejectsBadCoordinates(t *testing.T) {
	_, err := Parse([]byte(`[{"id": 1, "address": {"geo": {"lat": "north", "lng": "0"}}}]`))
	assert.Error(t, err)
}

func TestParseRejectsNonArrayPayload(t *testing.T) {
	_, err := Parse([]byte(`{"id": 1}`))
	assert.Error(t, err)
}

func TestFetchPropagatesAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := apiclient.New(5 * time.Second)
	_, err := Fetch(context.Background(), client, srv.URL)
	assert.Error(t, err)
}

func TestFetchParsesServerResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	client := apiclient.New(5 * time.Second)
	records, err := Fetch(context.Background(), client, srv.URL)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
