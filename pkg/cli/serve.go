package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/langconv/langconv/pkg/cli/internal/output"
	"github.com/langconv/langconv/pkg/mockserver"
	"github.com/langconv/langconv/pkg/stateful"
)

// serveFlags holds the values bound to the serve command flags.
type serveFlags struct {
	port      int
	host      string
	seedFile  string
	rateLimit float64
	rateBurst int
}

func newServeCmd(s *session) *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the in-memory mock backend over HTTP",
		Long: `Serve the languages and conversions collections from memory.

Every start loads the seed data again; nothing is persisted. The admin
endpoints under /__admin reset state, report counts and inject faults.`,
		Example: `  # Start with defaults
  langconv serve

  # Custom port and seed data
  langconv serve --port 8080 --seed seed.yaml

  # Throttle clients to 5 requests per second
  langconv serve --rate-limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := s.cfg
			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Server.Port = f.port
			}
			if flags.Changed("seed") {
				cfg.Server.SeedFile = f.seedFile
			}
			if flags.Changed("rate-limit") {
				cfg.Server.RateLimit = f.rateLimit
			}
			if flags.Changed("rate-burst") {
				cfg.Server.RateBurst = f.rateBurst
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}

			store, err := stateful.LoadStore(cfg.Server.SeedFile)
			if err != nil {
				return err
			}
			srv := mockserver.New(store,
				mockserver.WithLogger(s.logger),
				mockserver.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
			)

			if ip := net.ParseIP(f.host); f.host == "" || (ip != nil && ip.IsUnspecified()) {
				output.Warn(cmd.ErrOrStderr(), "listening on all interfaces; the mock backend has no authentication")
			}
			addr := net.JoinHostPort(f.host, strconv.Itoa(cfg.Server.Port))
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %v on http://%s%s\n", store.Names(), addr, mockserver.DefaultPrefix)
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Port to listen on (default from config, 4280)")
	cmd.Flags().StringVar(&f.host, "host", "localhost", "Interface to bind")
	cmd.Flags().StringVar(&f.seedFile, "seed", "", "YAML seed file replacing the built-in data")
	cmd.Flags().Float64Var(&f.rateLimit, "rate-limit", 0, "Requests per second before answering 429 (0 disables)")
	cmd.Flags().IntVar(&f.rateBurst, "rate-burst", 0, "Burst allowed above the rate limit")
	return cmd
}
