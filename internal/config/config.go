package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type CraigslistSource struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Region  string `yaml:"region" json:"region"` // dallas, sfbay, ...
	City    string `yaml:"city" json:"city"`
	State   string `yaml:"state" json:"state"`
	Limit   int    `yaml:"limit" json:"limit"`
}

type ZillowSource struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Location string `yaml:"location" json:"location"` // "Dallas, TX"
	Zip      string `yaml:"zip" json:"zip"`
	Limit    int    `yaml:"limit" json:"limit"`
}

type FacebookSource struct {
	Enabled         bool   `yaml:"enabled" json:"enabled"`
	City            string `yaml:"city" json:"city"`
	DaysSinceListed int    `yaml:"days_since_listed" json:"days_since_listed"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Polling struct {
		ScrapeMinutes  int `yaml:"scrape_minutes" json:"scrape_minutes"`
		CleanupHours   int `yaml:"cleanup_hours" json:"cleanup_hours"`
		MaxLeadAgeDays int `yaml:"max_lead_age_days" json:"max_lead_age_days"`
	} `yaml:"polling" json:"polling"`

	Sources struct {
		Craigslist CraigslistSource `yaml:"craigslist" json:"craigslist"`
		ZillowFSBO ZillowSource     `yaml:"zillow_fsbo" json:"zillow_fsbo"`
		Facebook   FacebookSource   `yaml:"facebook" json:"facebook"`
	} `yaml:"sources" json:"sources"`

	Enrichment struct {
		GeocodeEnabled bool `yaml:"geocode_enabled" json:"geocode_enabled"`
		ARVEnabled     bool `yaml:"arv_enabled" json:"arv_enabled"`
		CompsLimit     int  `yaml:"comps_limit" json:"comps_limit"`
	} `yaml:"enrichment" json:"enrichment"`

	Filters struct {
		ZipsAllow   []string `yaml:"zips_allow" json:"zips_allow"`
		ZipsBlock   []string `yaml:"zips_block" json:"zips_block"`
		CitiesBlock []string `yaml:"cities_block" json:"cities_block"`
	} `yaml:"filters" json:"filters"`

	Scoring struct {
		Policy         string   `yaml:"policy" json:"policy"` // threshold | price_ceiling | keyword
		MinEquityRatio float64  `yaml:"min_equity_ratio" json:"min_equity_ratio"`
		MinARV         int64    `yaml:"min_arv" json:"min_arv"`
		MinEquity      int64    `yaml:"min_equity" json:"min_equity"`
		PriceCeiling   int64    `yaml:"price_ceiling" json:"price_ceiling"`
		HotWords       []string `yaml:"hot_words" json:"hot_words"`
	} `yaml:"scoring" json:"scoring"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
