package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/langconv/langconv/pkg/catalog"
	"github.com/langconv/langconv/pkg/config"
	"github.com/langconv/langconv/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	backend    string
	baseURL    string
	logLevel   string
	jsonOutput bool
	verbose    bool
}

// session is the state a single command invocation works with.
type session struct {
	flags  globalFlags
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the complete command tree.
func NewRootCommand() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:   "langconv",
		Short: "langconv manages languages and conversions",
		Long: `langconv reads and edits the languages and conversions collections of a
catalog backend, and can serve an in-memory mock of that backend.

Configuration can be provided via flags, LANGCONV_* environment variables, or
a YAML file (--config, or .langconvrc.yaml in the working directory).`,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.flags.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&s.flags.backend, "backend", "", "Backend: http or memory")
	pf.StringVar(&s.flags.baseURL, "base-url", "", "API root, e.g. http://localhost:4280/api")
	pf.StringVar(&s.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&s.flags.jsonOutput, "json", false, "Output command results in JSON format")
	pf.BoolVarP(&s.flags.verbose, "verbose", "v", false, "Print the diagnostic messages of each command")

	root.AddCommand(
		newLanguagesCmd(s),
		newConversionsCmd(s),
		newServeCmd(s),
		newVersionCmd(s),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// load resolves the configuration and logger for cmd.
func (s *session) load(cmd *cobra.Command) error {
	cfg, err := config.Load(s.flags.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = strings.ToLower(strings.TrimSpace(s.flags.backend))
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = s.flags.baseURL
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = s.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	s.cfg = cfg
	s.logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// catalog builds a Catalog over the configured backend.
func (s *session) catalog() (*catalog.Catalog, error) {
	if s.cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return catalog.New(s.cfg, catalog.WithLogger(s.logger))
}

// report prints the messages logged since mark when --verbose is set, and
// turns a failure message into an error.
func (s *session) report(w io.Writer, c *catalog.Catalog, mark int) error {
	msgs := c.Messages().Messages()
	if mark > len(msgs) {
		mark = len(msgs)
	}
	msgs = msgs[mark:]

	if s.flags.verbose {
		for _, m := range msgs {
			fmt.Fprintln(w, m)
		}
	}
	for _, m := range msgs {
		if strings.Contains(m, " failed: ") {
			return errors.New(m)
		}
	}
	return nil
}
