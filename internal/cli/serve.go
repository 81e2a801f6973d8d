package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/resinhook/internal/api"
	"github.com/rshade/resinhook/internal/config"
	"github.com/rshade/resinhook/internal/logging"
)

// NewServeCmd creates the serve command for the mock bank-data API.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mock bank-data API",
		Long: `Run the mock bank-data API.

Routes:
  GET  /api/health
  GET  /api/excel/export?type=transactions|accounts&count=N&keys=zh|en&txnType=X
  GET  /api/excel/download  (same query plus filename; returns an .xlsx)
  POST /api/excel/import    (multipart "file" or a raw .xlsx body)
  GET  /api/excel/jobs

The server stops gracefully on SIGINT/SIGTERM.`,
		Example: `  resinhook serve
  resinhook serve --addr :8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			jobs := openStore(ctx, cfg)
			if jobs != nil {
				defer jobs.Close()
			}

			server := api.New(api.Options{
				Logger:    logging.FromContext(ctx),
				Store:     jobs,
				ChunkSize: cfg.Export.ChunkSize,
			})
			cmd.Printf("Mock API listening on http://%s\n", addr)
			return server.Run(ctx, addr, cfg.Server.ReadTimeout, cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
