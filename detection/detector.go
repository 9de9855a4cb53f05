package detection

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"go-wildwatch/species"
	"go-wildwatch/types"
)

const (
	DefaultRadiusKM   = 5.0
	DefaultWindowDays = 7
	DefaultMinSize    = 3

	earthRadiusKM = 6371.0

	// Average-risk thresholds for cluster levels.
	elevatedRiskThreshold = 4.0
	criticalRiskThreshold = 7.0
)

// Options tunes a detection run. Zero values fall back to the defaults.
type Options struct {
	RadiusKM   float64
	WindowDays int
	MinSize    int
	Now        time.Time // reference time for the window; zero means time.Now
}

func (o Options) withDefaults() Options {
	if o.RadiusKM <= 0 {
		o.RadiusKM = DefaultRadiusKM
	}
	if o.WindowDays <= 0 {
		o.WindowDays = DefaultWindowDays
	}
	if o.MinSize <= 0 {
		o.MinSize = DefaultMinSize
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// DetectClusters groups classified reports into same-species outbreak
// clusters within the radius and time window, sorted by descending average
// risk. Single-pass greedy: each unassigned report seeds a group and pulls in
// all later unassigned reports of the same resolved species within the
// radius. Members of a group that ends up below MinSize stay marked as used
// and are never reconsidered by a later seed; downstream consumers were
// calibrated against that behavior, so keep it.
func DetectClusters(reports []types.ObservationReport, opts Options) []types.OutbreakCluster {
	opts = opts.withDefaults()

	candidates := filterCandidates(reports, opts)
	if len(candidates) == 0 {
		return nil
	}

	// Resolve species once per report.
	resolved := make([]string, len(candidates))
	for i := range candidates {
		resolved[i] = species.Resolve(candidates[i].Tags, candidates[i].Summary)
	}

	var clusters []types.OutbreakCluster
	used := make([]bool, len(candidates))

	for i := range candidates {
		if used[i] {
			continue
		}
		used[i] = true
		members := []int{i}

		for j := i + 1; j < len(candidates); j++ {
			if used[j] {
				continue
			}
			if resolved[j] != resolved[i] {
				continue
			}
			dist := HaversineKM(candidates[i].Lat, candidates[i].Lng, candidates[j].Lat, candidates[j].Lng)
			if dist <= opts.RadiusKM {
				used[j] = true
				members = append(members, j)
			}
		}

		if len(members) >= opts.MinSize {
			clusters = append(clusters, buildCluster(resolved[i], candidates, members))
		}
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].AvgRisk > clusters[b].AvgRisk
	})

	return clusters
}

// filterCandidates drops reports the detector must not see: missing
// classification, out-of-range coordinates, or outside the time window.
func filterCandidates(reports []types.ObservationReport, opts Options) []types.ObservationReport {
	cutoff := opts.Now.AddDate(0, 0, -opts.WindowDays)

	var candidates []types.ObservationReport
	for i := range reports {
		r := reports[i]
		if r.Label == "" {
			continue
		}
		if !validCoordinates(r.Lat, r.Lng) {
			log.Printf("Warning: report %s has invalid coordinates (%f, %f), skipping.", r.ID, r.Lat, r.Lng)
			continue
		}
		ts, ok := parseTimestamp(r.Timestamp)
		if !ok {
			log.Printf("Warning: report %s has unparseable timestamp %q, skipping.", r.ID, r.Timestamp)
			continue
		}
		if ts.Before(cutoff) || ts.After(opts.Now) {
			continue
		}
		candidates = append(candidates, r)
	}
	return candidates
}

func buildCluster(speciesName string, reports []types.ObservationReport, members []int) types.OutbreakCluster {
	first := reports[members[0]]
	cluster := types.OutbreakCluster{
		ID:        uuid.NewString(),
		Species:   speciesName,
		ReportIDs: make([]string, 0, len(members)),
		BoundingBox: types.BoundingBox{
			MinLat: first.Lat, MaxLat: first.Lat,
			MinLng: first.Lng, MaxLng: first.Lng,
		},
	}

	var sumLat, sumLng, sumRisk float64
	var earliest, latest time.Time

	for _, idx := range members {
		r := reports[idx]
		cluster.ReportIDs = append(cluster.ReportIDs, r.ID)

		if r.Lat < cluster.BoundingBox.MinLat {
			cluster.BoundingBox.MinLat = r.Lat
		}
		if r.Lat > cluster.BoundingBox.MaxLat {
			cluster.BoundingBox.MaxLat = r.Lat
		}
		if r.Lng < cluster.BoundingBox.MinLng {
			cluster.BoundingBox.MinLng = r.Lng
		}
		if r.Lng > cluster.BoundingBox.MaxLng {
			cluster.BoundingBox.MaxLng = r.Lng
		}

		sumLat += r.Lat
		sumLng += r.Lng
		sumRisk += r.RiskScore

		// Candidates already passed parseTimestamp in the filter step.
		if ts, ok := parseTimestamp(r.Timestamp); ok {
			if earliest.IsZero() || ts.Before(earliest) {
				earliest = ts
			}
			if latest.IsZero() || ts.After(latest) {
				latest = ts
			}
		}
	}

	count := float64(len(members))
	cluster.Lat = sumLat / count
	cluster.Lng = sumLng / count
	cluster.ReportCount = len(members)
	cluster.AvgRisk = math.Round(sumRisk/count*10) / 10
	cluster.Level = levelForRisk(cluster.AvgRisk)

	if !earliest.IsZero() {
		cluster.FirstSeen = earliest.UTC().Format(time.RFC3339)
	}
	if !latest.IsZero() {
		cluster.LastSeen = latest.UTC().Format(time.RFC3339)
	}

	sort.Strings(cluster.ReportIDs)

	return cluster
}

func levelForRisk(avgRisk float64) types.ClusterLevel {
	switch {
	case avgRisk >= criticalRiskThreshold:
		return types.Critical
	case avgRisk >= elevatedRiskThreshold:
		return types.Elevated
	default:
		return types.Monitoring
	}
}

func validCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// parseTimestamp accepts RFC 3339 with or without fractional seconds.
func parseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05Z", ts); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// HaversineKM calculates the great-circle distance in kilometers between two
// points specified in decimal degrees.
func HaversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLng1 := lng1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	radLng2 := lng2 * math.Pi / 180

	deltaLat := radLat2 - radLat1
	deltaLng := radLng2 - radLng1

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}
