package main

import (
	"os"

	"github.com/cloud-filemanager/go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
