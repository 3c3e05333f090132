// Package buildinfo exposes the build metadata stamped in via -ldflags.
package buildinfo

import (
	"fmt"
	"io"
)

// Populated at build time:
//
//	go build -ldflags "-X .../buildinfo.BuildVersion=v1.2.3 ..."
var (
	BuildVersion = "N/A"
	BuildDate    = "N/A"
	BuildCommit  = "N/A"
)

// PrintBuildData writes the build version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", BuildVersion)
	fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", BuildCommit)
}
