package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmt2csv/internal/api"
	"github.com/cleared-dev/stmt2csv/internal/layout"
)

func newServeCommand() *cobra.Command {
	var addr string
	var layoutPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPipeline(layoutPath)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), verbose)
			app := api.NewApp(&api.Handler{
				Pipeline: p,
				Sources:  layout.DefaultRegistry(),
				Log:      log,
			})
			log.WithField("addr", addr).Info("listening")
			return app.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "layout YAML file (default: built-in OCBC layout)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	return cmd
}
