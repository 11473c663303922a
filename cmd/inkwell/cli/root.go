// Package cli wires the command-line surface: build and serve, sharing one
// config flag and one logger.
package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/trapx25/inkwell/internal/domain/config"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "inkwell",
	Short:         "A static blog generator",
	Long:          "Inkwell turns a directory of markdown posts into a static site.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "site.yaml", "path to the site config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Logger()
}

func loadConfig(log zerolog.Logger) (config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		log.Error().Err(err).Str("path", cfgPath).Msg("config error")
		return cfg, err
	}
	return cfg, nil
}
