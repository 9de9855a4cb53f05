package types

// ObservationReport is a citizen-submitted, geotagged species sighting that
// has already passed through the upstream classification pipeline. Reports
// are immutable once classified; this service only reads them.
type ObservationReport struct {
	ID         string   `firestore:"-" json:"id"` // Firestore document ID
	Lat        float64  `firestore:"lat" json:"lat"`
	Lng        float64  `firestore:"lng" json:"lng"`
	Label      string   `firestore:"label" json:"label"` // classification category, e.g. "invasive-plant"
	Confidence float64  `firestore:"confidence" json:"confidence"`
	RiskScore  float64  `firestore:"riskScore" json:"riskScore"` // 0-10 from upstream analysis
	Tags       []string `firestore:"tags,omitempty" json:"tags,omitempty"`
	Summary    string   `firestore:"summary,omitempty" json:"summary,omitempty"`
	Timestamp  string   `firestore:"timestamp" json:"timestamp"` // ISO 8601
	Verified   bool     `firestore:"verified" json:"verified"`
	UserID     string   `firestore:"userId,omitempty" json:"userId,omitempty"`
}

// ClassificationResult is the narrow payload returned by the external vision
// classifier: a single label with a confidence and a short free-text summary.
type ClassificationResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}
