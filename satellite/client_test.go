package satellite

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-wildwatch/types"
)

const (
	testTokenURL = "https://auth.example.com/oauth/token"
	testStatsURL = "https://imagery.example.com/api/v1/statistics"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

type dayStats struct {
	mean        float64
	sampleCount int64
	noDataCount int64
}

func newTestClient(t *testing.T, overrides func(*Config)) *Client {
	t.Helper()

	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	cfg := Config{
		TokenURL:     testTokenURL,
		StatsURL:     testStatsURL,
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		HTTPClient:   httpClient,
		Now:          func() time.Time { return testNow },
	}
	if overrides != nil {
		overrides(&cfg)
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func registerTokenResponder(expiresIn int) {
	httpmock.RegisterResponder(http.MethodPost, testTokenURL,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]interface{}{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   expiresIn,
		}))
}

// registerStatsResponder serves per-day statistics, choosing the current or
// historical payload by the requested time range.
func registerStatsResponder(t *testing.T, current, historical []dayStats) {
	t.Helper()

	httpmock.RegisterResponder(http.MethodPost, testStatsURL,
		func(req *http.Request) (*http.Response, error) {
			var body statsRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, err.Error()), nil
			}

			from, err := time.Parse(time.RFC3339, body.Aggregation.TimeRange.From)
			if err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, err.Error()), nil
			}

			days := current
			if from.Before(testNow.AddDate(0, 0, -100)) {
				days = historical
			}
			return httpmock.NewJsonResponse(http.StatusOK, statsPayload(days))
		})
}

func statsPayload(days []dayStats) statsResponse {
	resp := statsResponse{}
	for _, d := range days {
		resp.Data = append(resp.Data, intervalResult{
			Outputs: map[string]intervalOutput{
				"ndvi": {
					Bands: map[string]bandResult{
						"B0": {Stats: bandStats{
							Mean:        d.mean,
							SampleCount: d.sampleCount,
							NoDataCount: d.noDataCount,
						}},
					},
				},
			},
		})
	}
	return resp
}

func TestAssess_AnomalyFromWindowMeans(t *testing.T) {
	client := newTestClient(t, nil)
	registerTokenResponder(3600)
	registerStatsResponder(t,
		[]dayStats{{mean: 0.64, sampleCount: 100}},
		[]dayStats{{mean: 0.42, sampleCount: 100}},
	)

	got, err := client.Assess(context.Background(), 12.9716, 77.5946)

	require.NoError(t, err)
	assert.InDelta(t, 0.64, got.CurrentNDVI, 1e-9)
	assert.InDelta(t, 0.42, got.HistoricalNDVI, 1e-9)
	assert.InDelta(t, 0.44, got.AnomalyScore, 1e-9)
	assert.Equal(t, types.AnomalyModerate, got.RiskLevel)
	assert.Equal(t, "Moderate Vegetation Anomaly", got.Assessment)
	assert.False(t, got.Meta.Cached)
	assert.Zero(t, got.Meta.CloudCoverage)

	// Both windows fetched, one token exchange.
	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 2, info["POST "+testStatsURL])
	assert.Equal(t, 1, info["POST "+testTokenURL])
}

func TestAssess_WeightedMeanSkewsTowardClearDays(t *testing.T) {
	client := newTestClient(t, nil)
	registerTokenResponder(3600)
	registerStatsResponder(t,
		[]dayStats{
			{mean: 0.8, sampleCount: 100, noDataCount: 0},
			{mean: 0.2, sampleCount: 100, noDataCount: 90}, // only 10 valid pixels
		},
		[]dayStats{{mean: 0.5, sampleCount: 100}},
	)

	got, err := client.Assess(context.Background(), 12.9716, 77.5946)

	require.NoError(t, err)
	// (0.8*100 + 0.2*10) / 110, not the naive (0.8+0.2)/2.
	assert.InDelta(t, 0.7455, got.CurrentNDVI, 1e-9)
	assert.InDelta(t, 45.0, got.Meta.CloudCoverage, 1e-9)
}

func TestAssess_CacheHitReturnsIdenticalNumbers(t *testing.T) {
	client := newTestClient(t, nil)
	registerTokenResponder(3600)
	registerStatsResponder(t,
		[]dayStats{{mean: 0.64, sampleCount: 100}},
		[]dayStats{{mean: 0.42, sampleCount: 100}},
	)

	first, err := client.Assess(context.Background(), 12.9716, 77.5946)
	require.NoError(t, err)
	second, err := client.Assess(context.Background(), 12.9716, 77.5946)
	require.NoError(t, err)

	assert.False(t, first.Meta.Cached)
	assert.True(t, second.Meta.Cached)
	assert.Equal(t, first.CurrentNDVI, second.CurrentNDVI)
	assert.Equal(t, first.HistoricalNDVI, second.HistoricalNDVI)
	assert.Equal(t, first.AnomalyScore, second.AnomalyScore)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)

	// The second call never left the process.
	assert.Equal(t, 2, httpmock.GetCallCountInfo()["POST "+testStatsURL])
}

func TestAssess_CacheExpiresAfterTTL(t *testing.T) {
	client := newTestClient(t, func(cfg *Config) {
		cfg.CacheTTL = 50 * time.Millisecond
	})
	registerTokenResponder(3600)
	registerStatsResponder(t,
		[]dayStats{{mean: 0.64, sampleCount: 100}},
		[]dayStats{{mean: 0.42, sampleCount: 100}},
	)

	_, err := client.Assess(context.Background(), 12.9716, 77.5946)
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)

	got, err := client.Assess(context.Background(), 12.9716, 77.5946)
	require.NoError(t, err)
	assert.False(t, got.Meta.Cached)
	assert.Equal(t, 4, httpmock.GetCallCountInfo()["POST "+testStatsURL])
}

func TestAssess_TokenReusedAcrossCalls(t *testing.T) {
	client := newTestClient(t, nil)
	registerTokenResponder(3600)
	registerStatsResponder(t,
		[]dayStats{{mean: 0.64, sampleCount: 100}},
		[]dayStats{{mean: 0.42, sampleCount: 100}},
	)

	_, err := client.Assess(context.Background(), 12.9716, 77.5946)
	require.NoError(t, err)
	_, err = client.Assess(context.Background(), 13.0827, 80.2707)
	require.NoError(t, err)

	assert.Equal(t, 1, httpmock.GetCallCountInfo()["POST "+testTokenURL])
}

func TestAssess_TokenRefreshedNearExpiry(t *testing.T) {
	// Real clock here: a 10s token is already inside the 30s safety margin,
	// so every call re-exchanges.
	client := newTestClient(t, func(cfg *Config) {
		cfg.Now = time.Now
	})
	registerTokenResponder(10)
	registerStatsResponder(t,
		[]dayStats{{mean: 0.64, sampleCount: 100}},
		[]dayStats{{mean: 0.42, sampleCount: 100}},
	)

	_, err := client.Assess(context.Background(), 12.9716, 77.5946)
	require.NoError(t, err)
	_, err = client.Assess(context.Background(), 13.0827, 80.2707)
	require.NoError(t, err)

	assert.Equal(t, 2, httpmock.GetCallCountInfo()["POST "+testTokenURL])
}

func TestAssess_NoUsablePixels(t *testing.T) {
	client := newTestClient(t, nil)
	registerTokenResponder(3600)
	registerStatsResponder(t,
		[]dayStats{{mean: 0, sampleCount: 100, noDataCount: 100}},
		[]dayStats{{mean: 0.42, sampleCount: 100}},
	)

	got, err := client.Assess(context.Background(), 12.9716, 77.5946)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, IsNoData(err))

	var nde *NoDataError
	require.ErrorAs(t, err, &nde)
	assert.Equal(t, "current", nde.Window)
	assert.InDelta(t, 100.0, nde.CloudCoverage, 1e-9)
}

func TestAssess_AuthFailure(t *testing.T) {
	client := newTestClient(t, nil)
	httpmock.RegisterResponder(http.MethodPost, testTokenURL,
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"error":"invalid_client"}`))

	got, err := client.Assess(context.Background(), 12.9716, 77.5946)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrAuth))
}

func TestAssess_ScoreClampedToOne(t *testing.T) {
	client := newTestClient(t, nil)
	registerTokenResponder(3600)
	registerStatsResponder(t,
		[]dayStats{{mean: 0.9, sampleCount: 100}},
		[]dayStats{{mean: -0.9, sampleCount: 100}},
	)

	got, err := client.Assess(context.Background(), 12.9716, 77.5946)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.AnomalyScore, 1e-9)
	assert.Equal(t, types.AnomalyHigh, got.RiskLevel)
}

func TestClassifyAnomalyBoundaries(t *testing.T) {
	assert.Equal(t, types.AnomalyLow, classifyAnomaly(0.32))
	assert.Equal(t, types.AnomalyModerate, classifyAnomaly(0.33))
	assert.Equal(t, types.AnomalyModerate, classifyAnomaly(0.65))
	assert.Equal(t, types.AnomalyHigh, classifyAnomaly(0.66))
	assert.Equal(t, types.AnomalyHigh, classifyAnomaly(1.0))
}

func TestBoundingBoxIsRoughly200Meters(t *testing.T) {
	lat, lng := 12.9716, 77.5946
	bbox := BoundingBox(lat, lng)

	assert.Less(t, bbox[0], lng)
	assert.Less(t, bbox[1], lat)
	assert.Greater(t, bbox[2], lng)
	assert.Greater(t, bbox[3], lat)

	// ~0.0017966 degrees of latitude is 200m.
	assert.InDelta(t, 2*boxHalfSideMeters/metersPerDegreeLat, bbox[3]-bbox[1], 1e-9)
	// Longitude span widens by 1/cos(lat).
	assert.InDelta(t, (bbox[3]-bbox[1])/math.Cos(lat*math.Pi/180), bbox[2]-bbox[0], 1e-9)
}
