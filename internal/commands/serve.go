package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-ledger/internal/api"
	"github.com/insightdelivered/statement-ledger/internal/config"
)

func newServeCommand(newLogger func() zerolog.Logger) *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			srv := api.NewServer(log, cfg)
			app := srv.App()

			log.Info().Str("addr", addr).Msg("listening")
			if err := app.Listen(addr); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "statement-ledger.yaml", "configuration file")

	return cmd
}
