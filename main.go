package main

import (
	"os"

	"github.com/RavenCaffeine/SeekJob-Helper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
