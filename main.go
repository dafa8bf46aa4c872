// ABOUTME: Entry point for the storefront CLI
// ABOUTME: Terminal client for browsing products, managing a cart and placing orders

package main

import (
	"fmt"
	"os"

	"github.com/Spiffy047/Ecommerce-frontend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
