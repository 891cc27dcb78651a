// RodCut: cutting plans for rods, bars and profiles.
//
// Given a stock rod length and a list of pieces, rodcut computes a cutting
// plan that uses the fewest rods and exports it as text, JSON, PDF, Excel or
// DXF. The same optimizer is available over HTTP with "rodcut serve".
//
// Build:
//   go build -o rodcut ./cmd/rodcut
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o rodcut.exe ./cmd/rodcut
//   GOOS=darwin  GOARCH=arm64 go build -o rodcut-darwin ./cmd/rodcut

package main

import (
	"os"

	"github.com/piwi3910/RodCut/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
