package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

const version = "0.1.0"

var versionOption = flag.Bool("version", false, "gqlc version")

func main() {
	flag.Parse()

	if *versionOption {
		fmt.Printf("gqlc v%s", version)

		return
	}

	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
