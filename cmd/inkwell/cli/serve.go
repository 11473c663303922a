package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/trapx25/inkwell/internal/serve"
)

var (
	serveAddr string
	indexPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development server with live reload",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		cfg, err := loadConfig(log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := serve.New(cfg, indexPath, log)
		if err != nil {
			log.Error().Err(err).Msg("server init failed")
			return err
		}
		defer srv.Close()

		if err := srv.ListenAndServe(ctx, serveAddr); err != nil {
			log.Error().Err(err).Msg("server stopped")
			return err
		}
		log.Info().Msg("shutdown")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&indexPath, "index", ".inkwell/index.db", "path to the metadata index")
}
