package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/trapx25/inkwell/internal/build"
)

var cleanFirst bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the full site into the public directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		cfg, err := loadConfig(log)
		if err != nil {
			return err
		}

		if cleanFirst {
			if err := os.RemoveAll(cfg.Build.PublicDir); err != nil {
				log.Error().Err(err).Msg("clean failed")
				return err
			}
		}

		b := &build.Builder{Cfg: cfg, Log: log}
		res, err := b.Run(cmd.Context())
		if err != nil {
			log.Error().Err(err).Msg("build failed")
			return err
		}

		log.Info().
			Int("posts", res.Posts).
			Int("pages", res.Pages).
			Str("out", cfg.Build.PublicDir).
			Msg("build complete")
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&cleanFirst, "clean", false, "remove the public directory before building")
}
