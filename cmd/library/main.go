// Command library is the library catalog and lending tracker.
package main

import (
	"context"
	"os"

	"github.com/mustafa861/library/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
