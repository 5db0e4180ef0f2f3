package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/securevision/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     backend base URL
//	-w string     livestream websocket URL
//	-d string     download directory
//	-j string     cleanup journal DSN
//	-l string     log level
//	-t duration   shutdown timeout
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and any
// unknown arguments never reach this flag set.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-d", "-j", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "backend base URL")
	fs.StringVar(&cfg.StreamURL, "w", cfg.StreamURL, "livestream websocket URL")
	fs.StringVar(&cfg.DownloadDir, "d", cfg.DownloadDir, "download directory")
	fs.StringVar(&cfg.JournalDSN, "j", cfg.JournalDSN, "cleanup journal DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&cfg.ShutdownTimeout, "t", cfg.ShutdownTimeout, "shutdown timeout")

	return fs.Parse(args)
}
