// Package secrets stores API keys in the OS keyring so they never land
// in the yaml config. Environment variables win when set, which keeps
// headless and CI runs working without a keyring daemon.
package secrets

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const service = "leadengine"

const (
	accountGeocoder = "google_maps_api_key"
	accountComps    = "rapidapi_key"
)

func SetGeocoderKey(key string) error {
	return keyring.Set(service, accountGeocoder, strings.TrimSpace(key))
}

func SetCompsKey(key string) error {
	return keyring.Set(service, accountComps, strings.TrimSpace(key))
}

// GeocoderKey returns the Google Maps key, or "" when none is set.
func GeocoderKey() string {
	if v := strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")); v != "" {
		return v
	}
	v, err := keyring.Get(service, accountGeocoder)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// CompsKey returns the RapidAPI key shared by the zillow and facebook
// sources and the comps estimator, or "" when none is set.
func CompsKey() string {
	if v := strings.TrimSpace(os.Getenv("RAPIDAPI_KEY")); v != "" {
		return v
	}
	v, err := keyring.Get(service, accountComps)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}
