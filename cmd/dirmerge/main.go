// Package main provides the entry point for the dirmerge CLI tool.
package main

import "github.com/outreachworks/dirmerge/cmd/dirmerge/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
