// ABOUTME: Root command for the storefront CLI
// ABOUTME: Handles global flags, configuration and shared exit-code handling

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/config"
	"github.com/Spiffy047/Ecommerce-frontend/internal/logger"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storefront"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
)

// Exit codes
const (
	exitOK       = 0
	exitRejected = 1 // validation, auth or not-found
	exitError    = 2 // transport, server or bad input
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Terminal client for the storefront",
	Long: `storefront browses products, manages a cart and places orders against the
storefront backend. Run "storefront shop" for the interactive interface.

Exit codes:
  0 - Success
  1 - Request rejected (validation, authentication, not found)
  2 - Error (connectivity, server error, invalid input)

Environment Variables:
  STOREFRONT_API_URL             Backend API URL (default: http://localhost:5000)
  STOREFRONT_CONFIG_DIR          Where the session and debug log are kept
  STOREFRONT_REQUEST_TIMEOUT     Per-request timeout in seconds (default: 30)
  STOREFRONT_ADMIN_IDLE_TIMEOUT  Admin inactivity logout in seconds (default: 300)
  STOREFRONT_NERD_FONTS          Use Nerd Font icons in the interface
  LOG_LEVEL, LOG_FORMAT          Log verbosity and format (text, json)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(os.Stderr)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides STOREFRONT_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory for session state (overrides STOREFRONT_CONFIG_DIR)")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the environment and applies global flags on top
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.SetAPIURL(apiURL)
	}
	if configDir != "" {
		cfg.ConfigDir = configDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStorefront builds the storefront with the persisted session restored
func openStorefront() (*storefront.Storefront, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return storefront.New(cfg)
}

// withStorefront opens the storefront, runs fn and reports a setup failure
// as exit code 2
func withStorefront(w io.Writer, fn func(sf *storefront.Storefront) int) int {
	sf, err := openStorefront()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer sf.Close()
	return fn(sf)
}

// run executes a command body with a signal-aware context and exits with
// its code
func run(body func(ctx context.Context, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exitCode := body(ctx, os.Stdout)
	if exitCode != exitOK {
		os.Exit(exitCode)
	}
}

// exitCode maps an error to the CLI exit code
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case client.KindNetwork, client.KindServer:
			return exitError
		}
	}
	return exitRejected
}

// fail prints err the way the interactive screens would and returns its exit code
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %s\n", client.UserMessage(err))
	return exitCode(err)
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}
