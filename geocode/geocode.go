package geocode

import (
	"context"
	"fmt"
	"os"
	"sync"

	"googlemaps.github.io/maps"
)

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientOnce sync.Once
	initErr    error
)

// InitMapsClient initializes and returns a singleton Google Maps client.
func InitMapsClient() (*maps.Client, error) {
	clientOnce.Do(func() {
		apiKey := os.Getenv("MAPS_CREDENTIALS")
		if apiKey == "" {
			initErr = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, initErr = maps.NewClient(maps.WithAPIKey(apiKey))
	})
	return mapsClient, initErr
}

// AreaName reverse geocodes a coordinate into a human-readable address.
// Returns an empty string when the service has no result for the point.
func AreaName(lat, lng float64) (string, error) {
	client, err := InitMapsClient()
	if err != nil {
		return "", err
	}

	req := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	}

	results, err := client.ReverseGeocode(context.Background(), req)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].FormattedAddress, nil
}
