package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bulkutil/internal/bulk"
	"github.com/cleared-dev/bulkutil/internal/runlog"
)

func newSplitCommand(opts *globalOptions) *cobra.Command {
	var outputDir string
	var dateSuffix string

	cmd := &cobra.Command{
		Use:   "split <archive> <prefix> <batch-size>",
		Short: "Split an archive into batches of properties",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("parsing batch size %q: %w", args[2], err)
			}

			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			entry := runlog.NewEntry("split", args[0], outputDir)
			details, err := runSplit(cmd, e, bulk.SplitParams{
				ArchivePath: args[0],
				Prefix:      args[1],
				BatchSize:   size,
				OutputDir:   outputDir,
				DateSuffix:  dateSuffix,
			})
			e.record(entry, err, details)
			return err
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "directory for the batch archives (created if missing)")
	cmd.Flags().StringVar(&dateSuffix, "date-suffix", "", "8-digit suffix for entry names (default from config)")

	return cmd
}

func runSplit(cmd *cobra.Command, e *env, params bulk.SplitParams) (string, error) {
	batches, err := e.svc.Split(params)
	if err != nil {
		return "", err
	}

	out := cmd.OutOrStdout()
	for _, b := range batches {
		fmt.Fprintf(out, "Wrote %s (%d properties, %d line items, %d history rows)\n",
			b.Path, b.Properties, b.LineItems, b.History)
	}
	fmt.Fprintf(out, "Wrote %d batches\n", len(batches))
	return fmt.Sprintf("%d batches", len(batches)), nil
}
