package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/rxdbg/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	if err := cli.Execute(ctx, opts, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("RXDBG_DEBUG"), "1") || strings.EqualFold(os.Getenv("RXDBG_DEBUG"), "true")
}
