// Package main is the entry point for delivery-facts.
package main

import (
	"fmt"
	"os"

	"github.com/shoplens/delivery-facts/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
