package types

type ClusterLevel string

const (
	Monitoring ClusterLevel = "monitoring"
	Elevated   ClusterLevel = "elevated"
	Critical   ClusterLevel = "critical"
)

// OutbreakCluster is a group of same-species reports within a spatial radius
// and time window. Clusters are recomputed on demand from the current report
// set; the clusters collection only holds sweep snapshots.
type OutbreakCluster struct {
	ID          string       `firestore:"-" json:"id"`
	Species     string       `firestore:"species" json:"species"`
	Lat         float64      `firestore:"lat" json:"lat"` // centroid latitude
	Lng         float64      `firestore:"lng" json:"lng"` // centroid longitude
	ReportIDs   []string     `firestore:"reportIDs" json:"reportIds"`
	ReportCount int          `firestore:"reportCount" json:"reportCount"`
	AvgRisk     float64      `firestore:"avgRisk" json:"avgRisk"` // rounded to 1 decimal
	Level       ClusterLevel `firestore:"level" json:"level"`
	BoundingBox BoundingBox  `firestore:"boundingBox" json:"boundingBox"`
	FirstSeen   string       `firestore:"firstSeen,omitempty" json:"firstSeen,omitempty"` // earliest member timestamp
	LastSeen    string       `firestore:"lastSeen,omitempty" json:"lastSeen,omitempty"`   // latest member timestamp
	AreaName    string       `firestore:"areaName,omitempty" json:"areaName,omitempty"`   // reverse-geocoded, best effort
}

type BoundingBox struct {
	MinLat float64 `firestore:"minLat" json:"minLat"`
	MaxLat float64 `firestore:"maxLat" json:"maxLat"`
	MinLng float64 `firestore:"minLng" json:"minLng"`
	MaxLng float64 `firestore:"maxLng" json:"maxLng"`
}
