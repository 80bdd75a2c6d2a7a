package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bulkutil/internal/buildinfo"
	"github.com/cleared-dev/bulkutil/internal/bulk"
	"github.com/cleared-dev/bulkutil/internal/config"
	"github.com/cleared-dev/bulkutil/internal/logging"
	"github.com/cleared-dev/bulkutil/internal/runlog"
)

// ErrValidationFailed is returned by the validate command when the archive has
// data issues. The report has already been printed at that point.
var ErrValidationFailed = errors.New("validation failed")

type globalOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "bulkutil",
		Short:   "Validate, subset and split bulk upload archives",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to bulkutil.yaml")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newValidateCommand(opts))
	rootCmd.AddCommand(newSubsetCommand(opts))
	rootCmd.AddCommand(newSplitCommand(opts))

	return rootCmd
}

// env is the per-invocation state shared by the subcommands.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	svc    *bulk.Service
}

func (o *globalOptions) setup(cmd *cobra.Command) (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOrDefault(o.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if o.verbose {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)

	return &env{cfg: cfg, logger: logger, svc: bulk.NewService(cfg, logger)}, nil
}

// record appends a run log entry when a run log is configured. Failures to
// write the log are logged, not returned.
func (e *env) record(entry runlog.Entry, runErr error, details string) {
	if e.cfg.RunLog == "" {
		return
	}
	switch {
	case runErr == nil:
		entry.Outcome = runlog.OutcomeOK
	case errors.Is(runErr, ErrValidationFailed):
		entry.Outcome = runlog.OutcomeFailed
	default:
		entry.Outcome = runlog.OutcomeError
		details = runErr.Error()
	}
	entry.Details = details

	if err := runlog.Append(e.cfg.RunLog, entry); err != nil {
		e.logger.Warn("could not append run log", "path", e.cfg.RunLog, "error", err)
	}
}
