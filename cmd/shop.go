// ABOUTME: Shop command that launches the interactive storefront TUI
// ABOUTME: Routes logs to the debug file while the TUI owns the terminal

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Spiffy047/Ecommerce-frontend/internal/logger"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storefront"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Browse and buy in the interactive interface",
	Run: func(cmd *cobra.Command, args []string) {
		run(runShop)
	},
}

func init() {
	rootCmd.AddCommand(shopCmd)
}

// runShop starts the TUI and returns exit code
func runShop(_ context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	logDir := cfg.ConfigDir
	if cfg.Ephemeral {
		logDir = ""
	}
	if err := logger.InitFile(logDir); err != nil {
		fmt.Fprintf(w, "Error: failed to open debug log: %v\n", err)
		return exitError
	}
	defer logger.Close()

	sf, err := storefront.New(cfg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer sf.Close()

	if err := tui.Run(sf); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
