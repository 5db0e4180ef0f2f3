// Package config loads runtime configuration for the SecureVision client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. The extension picks
//     the format: .yaml/.yml for YAML, anything else for JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     backend base URL
//	-w string     livestream websocket URL (derived from -a when empty)
//	-d string     download directory
//	-j string     cleanup journal DSN
//	-l string     log level
//	-t duration   shutdown timeout
//
// # File schema
//
// Durations use timex.Duration, so they may be strings like "10s" or integer
// nanoseconds. Keys left out of the file keep their earlier value.
//
//	base_url: http://localhost:8000
//	download_dir: downloads
//	shutdown_timeout: 15s
//	s3:
//	  bucket: securevision-media
//	  region: eu-central-1
//
// S3 settings are file-only; they carry credentials that do not belong on a
// command line.
package config
