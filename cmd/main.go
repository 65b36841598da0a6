package main

import (
	"os"

	"github.com/KevinSet35/geo-whiz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
