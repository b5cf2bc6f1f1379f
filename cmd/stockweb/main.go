package main

import (
	"os"

	"stockweb/internal/webd"
)

// Version is injected by build scripts via -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	os.Exit(webd.Run(os.Args[1:]))
}
