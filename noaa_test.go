package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const wwvSample = `:Product: Geophysical Alert Message wwv.txt
:Issued: 2024 Mar 01 1200 UTC
# Prepared by the US Dept. of Commerce, NOAA, Space Weather Prediction Center

Solar-terrestrial indices for 29 February follow.
Solar flux 170 and estimated planetary A-index 8.
The estimated planetary K-index at 1200 UTC on 01 March was 2.

No space weather storms were observed for the past 24 hours.
`

const discussionSample = `:Product: Forecast Discussion
:Issued: 2024 Mar 01 1230 UTC

Solar Activity

.24 hr Summary...
Solar activity was low.

.Forecast...
Solar activity is expected to be low with a chance for M-class flares
on 01-03 March.

Energetic Particle

.24 hr Summary...
The greater than 2 MeV electron flux was moderate.
`

func newTestNOAAClient(t *testing.T, handler http.Handler) (*noaaClient, *MockClock) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	// The cache compares the clock against real file mtimes, so the mock
	// clock has to start at the wall clock.
	mockClock := &MockClock{currentTime: time.Now()}
	client := newNOAAClient(t.TempDir(), mockClock)
	client.baseURL = server.URL
	return client, mockClock
}

func TestAlerts(t *testing.T) {
	var requests int
	client, _ := newTestNOAAClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text/wwv.txt", r.URL.Path)
		requests++
		w.Write([]byte(wwvSample))
	}))

	report, err := client.Alerts(context.Background())
	assert.NoError(t, err)
	assert.Contains(t, report, "Report from: 2024 Mar 01 1200 UTC")
	assert.Contains(t, report, "Solar flux 170")
	assert.NotContains(t, report, ":Product")
	assert.NotContains(t, report, "#")
	assert.Equal(t, 1, requests)
}

func TestAlertsUsesCache(t *testing.T) {
	var requests int
	client, mockClock := newTestNOAAClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(wwvSample))
	}))

	_, err := client.Alerts(context.Background())
	assert.NoError(t, err)
	_, err = client.Alerts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, requests, "second call within maxAge should hit the cache")

	mockClock.Advance(2 * time.Hour)
	_, err = client.Alerts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestAlertsEmptyAnnouncement(t *testing.T) {
	// A body of only product headers and comments filters down to nothing.
	client, _ := newTestNOAAClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(":Product: Geophysical Alert Message wwv.txt\n# Prepared by NOAA\n\n"))
	}))

	_, err := client.Alerts(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestAlertsServerError(t *testing.T) {
	client, _ := newTestNOAAClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Alerts(context.Background())
	assert.Error(t, err)
}

func TestForecast(t *testing.T) {
	client, _ := newTestNOAAClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text/discussion.txt", r.URL.Path)
		w.Write([]byte(discussionSample))
	}))

	forecast, err := client.Forecast(context.Background())
	assert.NoError(t, err)
	assert.Equal(t,
		"Solar activity is expected to be low with a chance for M-class flares on 01-03 March.",
		forecast)
}

func TestForecastMissingSection(t *testing.T) {
	client, _ := newTestNOAAClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("no forecast here\n"))
	}))

	_, err := client.Forecast(context.Background())
	assert.Error(t, err)
}
