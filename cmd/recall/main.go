package main

import (
	"os"

	"github.com/haasp-labs/recall/internal/adapters/driving/cli"
)

func main() {
	os.Exit(cli.Execute())
}
