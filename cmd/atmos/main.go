package main

import (
	"github.com/atmoscli/atmos/internal/cli"
)

// Version info (set via ldflags during build)
var Version = "dev"

func main() {
	cli.Version = Version
	cli.Main()
}
