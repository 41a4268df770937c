// Command meshsniff captures mesh radio packets into SQLite and serves
// them over HTTP.
package main

import (
	"context"
	"os"

	"github.com/roach88/meshsniff/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
