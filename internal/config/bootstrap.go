package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// EnsureUserConfig makes sure the data dir holds a config.yml the user
// can edit, seeding it from the packaged default on first run. When
// even the packaged default is missing (bare checkout), a built-in
// default is written instead.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if werr := SaveAtomic(userPath, Default()); werr != nil {
				return "", werr
			}
			return userPath, nil
		}
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

// Default mirrors config/config.yml.
func Default() Config {
	var c Config
	c.App.Port = 38471
	c.App.DataDir = "."
	c.Polling.ScrapeMinutes = 30
	c.Polling.CleanupHours = 24
	c.Polling.MaxLeadAgeDays = 90

	c.Sources.Craigslist.Enabled = true
	c.Sources.Craigslist.Region = "dallas"
	c.Sources.Craigslist.City = "Dallas"
	c.Sources.Craigslist.State = "TX"
	c.Sources.Craigslist.Limit = 25

	c.Sources.ZillowFSBO.Location = "Dallas, TX"
	c.Sources.ZillowFSBO.Zip = "75201"
	c.Sources.ZillowFSBO.Limit = 10

	c.Sources.Facebook.City = "Dallas"
	c.Sources.Facebook.DaysSinceListed = 1

	c.Enrichment.GeocodeEnabled = true
	c.Enrichment.ARVEnabled = true
	c.Enrichment.CompsLimit = 10

	c.Scoring.Policy = "threshold"
	c.Scoring.MinEquityRatio = 0.25
	c.Scoring.MinARV = 100000
	c.Scoring.MinEquity = 30000
	c.Scoring.PriceCeiling = 150000
	c.Scoring.HotWords = []string{
		"motivated", "cash", "as-is", "urgent",
		"must sell", "investor", "fast", "cheap",
	}
	return c
}
