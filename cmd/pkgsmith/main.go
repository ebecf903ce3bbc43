package main

import (
	"github.com/tacogips/pkgsmith/internal/build"
	"github.com/tacogips/pkgsmith/internal/cli"
)

func main() {
	// Set version info from build metadata
	cli.Version = build.Version()
	cli.GitCommit = build.Commit()
	cli.BuildDate = build.Date()

	// Execute the root command
	cli.Execute()
}
