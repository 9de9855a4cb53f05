package types

type AnomalyLevel string

const (
	AnomalyLow      AnomalyLevel = "Low"
	AnomalyModerate AnomalyLevel = "Moderate"
	AnomalyHigh     AnomalyLevel = "High"
)

// SatelliteAssessment is the result of comparing current NDVI against the
// historical baseline for a ~200m box around a coordinate.
type SatelliteAssessment struct {
	BBox           [4]float64     `json:"bbox"` // minLng, minLat, maxLng, maxLat
	CurrentNDVI    float64        `json:"current_ndvi"`
	HistoricalNDVI float64        `json:"historical_ndvi"`
	AnomalyScore   float64        `json:"anomaly_score"` // [0,1], 4 decimals
	RiskLevel      AnomalyLevel   `json:"risk_level"`
	Assessment     string         `json:"assessment"` // e.g. "Moderate Vegetation Anomaly"
	Meta           AssessmentMeta `json:"meta"`
}

// AssessmentMeta carries the diagnostic context of an assessment.
type AssessmentMeta struct {
	CurrentWindow    DateWindow `json:"current_window"`
	HistoricalWindow DateWindow `json:"historical_window"`
	CloudCoverage    float64    `json:"cloud_coverage_pct"` // no-data fraction of the current window
	Cached           bool       `json:"cached"`
}

type DateWindow struct {
	From string `json:"from"` // ISO 8601
	To   string `json:"to"`
}
