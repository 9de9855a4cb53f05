package satellite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NDVI from red (B04) and near-infrared (B08), with the data mask carried
// through so cloudy/no-data pixels are counted rather than silently dropped.
const ndviEvalscript = `//VERSION=3
function setup() {
  return {
    input: [{ bands: ["B04", "B08", "dataMask"] }],
    output: [
      { id: "ndvi", bands: 1 },
      { id: "dataMask", bands: 1 }
    ]
  };
}
function evaluatePixel(sample) {
  let ndvi = (sample.B08 - sample.B04) / (sample.B08 + sample.B04);
  return { ndvi: [ndvi], dataMask: [sample.dataMask] };
}`

type statsRequest struct {
	Input       statsInput       `json:"input"`
	Aggregation statsAggregation `json:"aggregation"`
}

type statsInput struct {
	Bounds statsBounds `json:"bounds"`
}

type statsBounds struct {
	BBox [4]float64 `json:"bbox"`
}

type statsAggregation struct {
	TimeRange           statsTimeRange `json:"timeRange"`
	AggregationInterval statsInterval  `json:"aggregationInterval"`
	Evalscript          string         `json:"evalscript"`
}

type statsTimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type statsInterval struct {
	Of string `json:"of"`
}

type statsResponse struct {
	Data []intervalResult `json:"data"`
}

type intervalResult struct {
	Interval statsTimeRange            `json:"interval"`
	Outputs  map[string]intervalOutput `json:"outputs"`
}

type intervalOutput struct {
	Bands map[string]bandResult `json:"bands"`
}

type bandResult struct {
	Stats bandStats `json:"stats"`
}

type bandStats struct {
	Mean        float64 `json:"mean"`
	SampleCount int64   `json:"sampleCount"`
	NoDataCount int64   `json:"noDataCount"`
}

// windowStats is the aggregate of one time window: the global NDVI mean
// weighted by each day's valid-pixel count, plus the no-data fraction.
type windowStats struct {
	Mean     float64
	CloudPct float64 // percent of pixels that were cloud/no-data
	HasData  bool
}

// fetchWindowStats requests per-day NDVI statistics for the bounding box and
// combines them into one weighted mean. Weighting by valid-pixel count keeps
// partly-cloudy days from dragging the mean around.
func (c *Client) fetchWindowStats(ctx context.Context, token string, bbox [4]float64, win dateWindow) (windowStats, error) {
	body := statsRequest{
		Input: statsInput{Bounds: statsBounds{BBox: bbox}},
		Aggregation: statsAggregation{
			TimeRange: statsTimeRange{
				From: win.From.Format(time.RFC3339),
				To:   win.To.Format(time.RFC3339),
			},
			AggregationInterval: statsInterval{Of: "P1D"},
			Evalscript:          ndviEvalscript,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return windowStats{}, fmt.Errorf("encoding statistics request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.StatsURL, bytes.NewReader(payload))
	if err != nil {
		return windowStats{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return windowStats{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return windowStats{}, fmt.Errorf("%w: statistics endpoint returned %s", ErrAuth, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return windowStats{}, fmt.Errorf("statistics request failed: %s", resp.Status)
	}

	var parsed statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return windowStats{}, fmt.Errorf("decoding statistics response: %w", err)
	}

	return aggregateWindow(parsed), nil
}

func aggregateWindow(resp statsResponse) windowStats {
	var weightedSum float64
	var totalValid, totalSamples, totalNoData int64

	for _, interval := range resp.Data {
		output, ok := interval.Outputs["ndvi"]
		if !ok {
			continue
		}
		for _, band := range output.Bands {
			valid := band.Stats.SampleCount - band.Stats.NoDataCount
			totalSamples += band.Stats.SampleCount
			totalNoData += band.Stats.NoDataCount
			if valid <= 0 {
				continue
			}
			weightedSum += band.Stats.Mean * float64(valid)
			totalValid += valid
		}
	}

	stats := windowStats{}
	if totalSamples > 0 {
		stats.CloudPct = 100 * float64(totalNoData) / float64(totalSamples)
	}
	if totalValid > 0 {
		stats.Mean = weightedSum / float64(totalValid)
		stats.HasData = true
	}
	return stats
}
