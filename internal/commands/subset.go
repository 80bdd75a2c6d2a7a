package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bulkutil/internal/bulk"
	"github.com/cleared-dev/bulkutil/internal/runlog"
)

func newSubsetCommand(opts *globalOptions) *cobra.Command {
	var dateSuffix string

	cmd := &cobra.Command{
		Use:   "subset <archive> <output> <n>",
		Short: "Write the first n properties and their related rows to a new archive",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("parsing property count %q: %w", args[2], err)
			}

			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			entry := runlog.NewEntry("subset", args[0], args[1])
			details, err := runSubset(cmd, e, bulk.SubsetParams{
				ArchivePath: args[0],
				OutputPath:  args[1],
				Properties:  n,
				DateSuffix:  dateSuffix,
			})
			e.record(entry, err, details)
			return err
		},
	}

	cmd.Flags().StringVar(&dateSuffix, "date-suffix", "", "8-digit suffix for entry names (default from config)")

	return cmd
}

func runSubset(cmd *cobra.Command, e *env, params bulk.SubsetParams) (string, error) {
	sub, err := e.svc.Subset(params)
	if err != nil {
		return "", err
	}

	details := fmt.Sprintf("%d properties, %d line items, %d history rows",
		len(sub.Properties()), len(sub.LineItems()), len(sub.History()))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote subset with %d properties to %s\n", len(sub.Properties()), params.OutputPath)
	return details, nil
}
