package config

import "time"

// Config holds runtime settings for the askpdf CLI.
//
// Fields:
//   - ServerEndpointURL: base URL of the backend HTTP API.
//   - RequestTimeout: per-request HTTP timeout.
//   - TopK: number of document fragments requested per query.
//   - TokenFile: path of the persisted-token slot ("" means the per-user
//     default under the OS config directory).
//   - LogLevel: debug | info | warn | error.
type Config struct {
	ServerEndpointURL string
	RequestTimeout    time.Duration
	TopK              int
	TokenFile         string
	LogLevel          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointURL = "http://localhost:8000"
	c.RequestTimeout = 30 * time.Second
	c.TopK = 4
	c.TokenFile = ""
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including a .env file, if present), a JSON file
// (if given via -c/-config), and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
