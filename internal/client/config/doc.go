// Package config loads runtime settings for the askpdf CLI from, in order
// of increasing precedence: built-in defaults, the environment (with an
// optional .env file), a JSON config file given via -c/-config, and
// command-line flags.
package config
