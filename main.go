package main

import (
	"os"

	"github.com/mrryf/thesisweb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
