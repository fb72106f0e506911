package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import seeders so their init() funcs register themselves.
	_ "github.com/VDECKSHOP/backend/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vdeck",
	Short: "VDECK shop backend",
	Long:  "VDECK shop backend: products, orders and payment-proof uploads over MongoDB.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(seedCmd)
}
