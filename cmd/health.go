// ABOUTME: Health command for the storefront CLI
// ABOUTME: Checks backend connectivity and service status

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storefront"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the storefront backend and report its status.`,
	Run: func(cmd *cobra.Command, args []string) {
		run(runHealth)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	return withStorefront(w, func(sf *storefront.Storefront) int {
		resp, err := sf.API.Health(ctx)
		if err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.UserMessage(err))
			return exitError
		}

		if IsJSONOutput() {
			printJSON(w, map[string]string{
				"backend": sf.Config.APIURL,
				"status":  resp.Status,
			})
		} else {
			fmt.Fprintln(w, formatHealthHuman(sf.Config.APIURL, resp))
		}
		return exitOK
	})
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *client.HealthResponse) string {
	return fmt.Sprintf(`Backend: %s
Status:  %s`, url, resp.Status)
}
