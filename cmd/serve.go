package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/pytutor/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tutor over an HTTP JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		engine, err := rt.engine(ctx)
		if err != nil {
			return err
		}

		addr := rt.cfg.HTTP.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		srv := httpapi.New(engine, httpapi.Options{
			Mode:        rt.cfg.HTTP.GinMode,
			CORSOrigins: rt.cfg.HTTP.CORSOrigins,
		})
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
}
