package config

import (
	"flag"
	"os"
	"time"

	"github.com/dbelyaev/askpdf/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-e string   base URL of the backend server
//	-t int      request timeout in seconds
//	-k int      document fragments per query
//	-f string   persisted-token file path
//	-l string   log level (debug|info|warn|error)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with the -c/-config stage.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-t", "-k", "-f", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointURL, "e", cfg.ServerEndpointURL, "base URL of the backend server")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.TopK, "k", cfg.TopK, "document fragments per query")
	fs.StringVar(&cfg.TokenFile, "f", cfg.TokenFile, "persisted-token file path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
}
