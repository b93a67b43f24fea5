package main

import (
	"os"

	"github.com/glyengineering/glyweb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
