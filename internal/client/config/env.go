package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A
// .env file in the working directory is loaded first, without overriding
// variables already present in the environment.
//
// Recognized variables:
//
//	ASKPDF_SERVER_URL   base URL of the backend
//	ASKPDF_TIMEOUT      request timeout, e.g. "45s"
//	ASKPDF_TOP_K        fragments per query
//	ASKPDF_TOKEN_FILE   persisted-token path
//	ASKPDF_LOG_LEVEL    debug | info | warn | error
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ASKPDF_SERVER_URL"); v != "" {
		cfg.ServerEndpointURL = v
	}
	if v := os.Getenv("ASKPDF_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("ASKPDF_TOP_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil && k > 0 {
			cfg.TopK = k
		}
	}
	if v := os.Getenv("ASKPDF_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("ASKPDF_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
