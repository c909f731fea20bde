package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultFeedURL is NASA's public ISS OEM ephemeris in the J2000 frame.
const DefaultFeedURL = "https://nasa-public-data.s3.amazonaws.com/iss-coords/current/ISS_OEM/ISS.OEM_J2K_EPH.xml"

// Config holds the configuration settings for the tracker API.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The port the HTTP API listens on.
// - Feed: Where and how the ephemeris is downloaded.
// - Geocoder: Reverse geocoding provider settings.
// - EOP: Earth orientation parameters applied by the frame transform.
// - ShutdownTimeout: How long in-flight requests get on shutdown.
type Config struct {
	Env             string
	Port            int
	Feed            FeedConfig
	Geocoder        GeocoderConfig
	EOP             EOPConfig
	ShutdownTimeout time.Duration
}

// FeedConfig describes the upstream ephemeris feed.
type FeedConfig struct {
	URL     string
	Timeout time.Duration
}

// GeocoderConfig selects and tunes the reverse geocoding provider.
type GeocoderConfig struct {
	Type      string // nominatim or google
	APIKey    string // required for google
	UserAgent string
	Language  string
	RateLimit int // requests per second
	Timeout   time.Duration
}

// EOPConfig holds Earth orientation parameters. Polar motion is taken from
// PolarX and PolarY only when MeasuredPole is set, that is when ISS_POLAR_X or
// ISS_POLAR_Y is present. Otherwise the IERS secular pole is used.
type EOPConfig struct {
	DUT1         float64 // UT1-UTC, seconds
	PolarX       float64 // arcseconds
	PolarY       float64 // arcseconds
	MeasuredPole bool
}

// MustLoad reads the configuration from the environment, after loading an
// optional .env file, and panics on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("ISS_HTTP_PORT", "5000"))
	if err != nil {
		panic("failed to parse HTTP port from configuration")
	}

	feedTimeout, err := time.ParseDuration(setDefaultEnv("ISS_FEED_TIMEOUT", "30s"))
	if err != nil {
		panic("failed to parse feed timeout from configuration")
	}

	rateLimit, err := strconv.Atoi(setDefaultEnv("ISS_GEOCODER_RATE", "1"))
	if err != nil {
		panic("failed to parse geocoder rate limit from configuration, must be an integer")
	}

	geocoderTimeout, err := time.ParseDuration(setDefaultEnv("ISS_GEOCODER_TIMEOUT", "10s"))
	if err != nil {
		panic("failed to parse geocoder timeout from configuration")
	}

	dut1, err := strconv.ParseFloat(setDefaultEnv("ISS_DUT1", "0"), 64)
	if err != nil {
		panic("failed to parse DUT1 from configuration, must be seconds")
	}

	polarX, err := strconv.ParseFloat(setDefaultEnv("ISS_POLAR_X", "0"), 64)
	if err != nil {
		panic("failed to parse polar motion x from configuration, must be arcseconds")
	}

	polarY, err := strconv.ParseFloat(setDefaultEnv("ISS_POLAR_Y", "0"), 64)
	if err != nil {
		panic("failed to parse polar motion y from configuration, must be arcseconds")
	}

	_, hasPolarX := os.LookupEnv("ISS_POLAR_X")
	_, hasPolarY := os.LookupEnv("ISS_POLAR_Y")

	shutdownTimeout, err := time.ParseDuration(setDefaultEnv("ISS_SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		panic("failed to parse shutdown timeout from configuration")
	}

	return &Config{
		Env:  setDefaultEnv("ISS_ENV", "production"),
		Port: port,
		Feed: FeedConfig{
			URL:     setDefaultEnv("ISS_FEED_URL", DefaultFeedURL),
			Timeout: feedTimeout,
		},
		Geocoder: GeocoderConfig{
			Type:      setDefaultEnv("ISS_GEOCODER_TYPE", "nominatim"),
			APIKey:    os.Getenv("ISS_GEOCODER_KEY"),
			UserAgent: setDefaultEnv("ISS_GEOCODER_USER_AGENT", "ISS-Tracker/1.0 (https://github.com/athyk213/ISS-Tracker)"),
			Language:  setDefaultEnv("ISS_GEOCODER_LANGUAGE", "en"),
			RateLimit: rateLimit,
			Timeout:   geocoderTimeout,
		},
		EOP: EOPConfig{
			DUT1:         dut1,
			PolarX:       polarX,
			PolarY:       polarY,
			MeasuredPole: hasPolarX || hasPolarY,
		},
		ShutdownTimeout: shutdownTimeout,
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
