package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bulkutil/internal/report"
	"github.com/cleared-dev/bulkutil/internal/runlog"
)

func newValidateCommand(opts *globalOptions) *cobra.Command {
	var maxErrors int
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "validate <archive>",
		Short: "Validate a bulk upload archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-errors") {
				maxErrors = e.cfg.Report.MaxPerCategory
			}

			entry := runlog.NewEntry("validate", args[0], xlsxPath)
			details, err := runValidate(cmd, e, args[0], maxErrors, xlsxPath)
			e.record(entry, err, details)
			return err
		},
	}

	cmd.Flags().IntVar(&maxErrors, "max-errors", 20, "issues listed per category (0 = all)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the report to this XLSX workbook")

	return cmd
}

func runValidate(cmd *cobra.Command, e *env, archivePath string, maxErrors int, xlsxPath string) (string, error) {
	res, err := e.svc.Validate(archivePath)
	if err != nil {
		return "", err
	}

	if err := report.WriteText(cmd.OutOrStdout(), res, maxErrors); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	if xlsxPath != "" {
		if err := report.WriteXLSX(xlsxPath, res); err != nil {
			return "", err
		}
		e.logger.Info("wrote xlsx report", "path", xlsxPath)
	}

	details := fmt.Sprintf("%d issues", res.IssueCount())
	if !res.OK() {
		return details, ErrValidationFailed
	}
	return details, nil
}
