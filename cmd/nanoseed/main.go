package main

import (
	"os"

	"github.com/nanoseed/nanoseed/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
