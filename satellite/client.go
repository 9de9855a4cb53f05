package satellite

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"go-wildwatch/types"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultCacheTTL = 5 * time.Minute

	tokenExpiryMargin = 30 * time.Second

	currentWindowDays      = 30
	historicalStartDaysAgo = 120
	historicalEndDaysAgo   = 91

	// Half the side of the bounding box submitted to the statistics API,
	// giving a ~200m square around the coordinate.
	boxHalfSideMeters  = 100.0
	metersPerDegreeLat = 111320.0

	// A 0.5-unit NDVI swing is treated as near-total vegetation change.
	anomalyFullScaleDelta = 0.5

	anomalyModerateThreshold = 0.33
	anomalyHighThreshold     = 0.66
)

// Config for the vegetation-anomaly client.
type Config struct {
	TokenURL     string
	StatsURL     string
	ClientID     string
	ClientSecret string
	CacheTTL     time.Duration
	HTTPClient   *http.Client
	Now          func() time.Time // injectable clock for tests
}

// DefaultConfig returns a config pointed at the production imagery service.
func DefaultConfig() Config {
	return Config{
		TokenURL: "https://services.sentinel-hub.com/oauth/token",
		StatsURL: "https://services.sentinel-hub.com/api/v1/statistics",
		CacheTTL: DefaultCacheTTL,
	}
}

// Client assesses vegetation anomalies around a coordinate by comparing the
// current NDVI window against a historical baseline. Results are cached per
// rounded coordinate for CacheTTL; the access token is cached on the client
// and refreshed lazily.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      *cache.Cache
	creds      *clientcredentials.Config
	logger     *slog.Logger
	now        func() time.Time

	tokenMu sync.Mutex
	token   *oauth2.Token
	refresh singleflight.Group
}

// NewClient creates a vegetation-anomaly client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("satellite client credentials are required")
	}

	defaults := DefaultConfig()
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaults.TokenURL
	}
	if cfg.StatsURL == "" {
		cfg.StatsURL = defaults.StatsURL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Client{
		cfg:        cfg,
		httpClient: cfg.HTTPClient,
		cache:      cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		creds: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		},
		logger: slog.Default().With("service", "satellite"),
		now:    cfg.Now,
	}, nil
}

// Assess computes a vegetation-anomaly assessment for the coordinate. A
// cached result younger than the TTL is returned as-is with the cached flag
// set. Returns *NoDataError when either window has no usable pixels. No
// retries anywhere in this path; timeouts are the caller's responsibility.
func (c *Client) Assess(ctx context.Context, lat, lng float64) (*types.SatelliteAssessment, error) {
	key := cacheKey(lat, lng)
	if v, found := c.cache.Get(key); found {
		snap := v.(types.SatelliteAssessment)
		snap.Meta.Cached = true
		c.logger.Debug("assessment cache hit", "key", key)
		return &snap, nil
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	bbox := BoundingBox(lat, lng)
	now := c.now().UTC()
	currentWin := dateWindow{
		From: now.AddDate(0, 0, -currentWindowDays),
		To:   now,
	}
	historicalWin := dateWindow{
		From: now.AddDate(0, 0, -historicalStartDaysAgo),
		To:   now.AddDate(0, 0, -historicalEndDaysAgo),
	}

	var current, historical windowStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := c.fetchWindowStats(gctx, token, bbox, currentWin)
		current = s
		return err
	})
	g.Go(func() error {
		s, err := c.fetchWindowStats(gctx, token, bbox, historicalWin)
		historical = s
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !current.HasData {
		return nil, &NoDataError{Window: "current", CloudCoverage: current.CloudPct}
	}
	if !historical.HasData {
		return nil, &NoDataError{Window: "historical", CloudCoverage: historical.CloudPct}
	}

	score := round4(clamp01(math.Abs(current.Mean-historical.Mean) / anomalyFullScaleDelta))
	level := classifyAnomaly(score)

	assessment := types.SatelliteAssessment{
		BBox:           bbox,
		CurrentNDVI:    round4(current.Mean),
		HistoricalNDVI: round4(historical.Mean),
		AnomalyScore:   score,
		RiskLevel:      level,
		Assessment:     string(level) + " Vegetation Anomaly",
		Meta: types.AssessmentMeta{
			CurrentWindow:    currentWin.toMeta(),
			HistoricalWindow: historicalWin.toMeta(),
			CloudCoverage:    round4(current.CloudPct),
			Cached:           false,
		},
	}

	// Stored snapshot is a full value; cache hits return copies of it.
	c.cache.Set(key, assessment, cache.DefaultExpiration)

	return &assessment, nil
}

// BoundingBox returns the ~200m square around the coordinate as
// minLng, minLat, maxLng, maxLat.
func BoundingBox(lat, lng float64) [4]float64 {
	dLat := boxHalfSideMeters / metersPerDegreeLat
	dLng := boxHalfSideMeters / (metersPerDegreeLat * math.Cos(lat*math.Pi/180))
	return [4]float64{lng - dLng, lat - dLat, lng + dLng, lat + dLat}
}

// cacheKey rounds to 3 decimal places, about 111m of latitude, so nearby
// requests share an assessment.
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.3f,%.3f", lat, lng)
}

func classifyAnomaly(score float64) types.AnomalyLevel {
	switch {
	case score < anomalyModerateThreshold:
		return types.AnomalyLow
	case score < anomalyHighThreshold:
		return types.AnomalyModerate
	default:
		return types.AnomalyHigh
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

type dateWindow struct {
	From time.Time
	To   time.Time
}

func (w dateWindow) toMeta() types.DateWindow {
	return types.DateWindow{
		From: w.From.Format(time.RFC3339),
		To:   w.To.Format(time.RFC3339),
	}
}
