package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/internal/server"
	"github.com/matzehuels/treemap/pkg/config"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host treemap charts over HTTP",
		Long: `Run the HTTP host. POST /render renders a query response through the
artifact cache; /charts keeps live charts that take updates, hover and
click events. The server shuts down gracefully on interrupt.`,
		Example: `  treemap serve --addr :8080
  curl -X POST --data @sales.json 'localhost:8080/render?format=svg'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(server.Options{
				Runner:   runner,
				Defaults: c.renderOptions(),
				Logger:   loggerFromContext(cmd.Context()).With("component", "server"),
			})
			printInfo("Listening on %s", StyleLink.Render("http://"+addr))
			if !noCache {
				printDetail("cache: %s", cacheLocation(c.Config.Cache))
			}
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
