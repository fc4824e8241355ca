// Package version exposes the build version shared by the daemon and CLI.
package version

// Version is stamped at build time via -ldflags.
var Version = "dev"
