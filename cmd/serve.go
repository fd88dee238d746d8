package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bucoapprove/mondash/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server over the snapshot store",
	Long: `Start an HTTP server exposing stored snapshots as a JSON API.

Endpoints:
  GET /api/v1/records    records of a snapshot (filters: urgency, person, board, snapshot)
  GET /api/v1/stats      summary statistics
  GET /api/v1/snapshots  list snapshots

By default it listens on port 8080. Use --port to change it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}

		port := viper.GetInt("port")
		addr := fmt.Sprintf(":%d", port)
		ui.Info("Serving API at http://localhost%s/api/v1/", addr)
		return http.ListenAndServe(addr, api.NewServer(s).Router())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}
