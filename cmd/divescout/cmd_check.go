package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"DiveScout/internal/logging"
	"DiveScout/internal/notifier"
)

var (
	checkJSON   bool
	checkRecord bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate conditions once and print the report",
	Long:  "Collect the current conditions, score them and print the report. Logs go to stderr.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	checkCmd.Flags().BoolVar(&checkRecord, "record", false, "store the evaluation in the history database")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	logger = logging.SetupWithWriter(cfg.Log.Level, cfg.Log.Pretty, os.Stderr)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.sched.Evaluate(ctx)
	if err != nil {
		return err
	}
	if checkRecord {
		if err := a.recorder.RecordEvaluation(report); err != nil {
			return fmt.Errorf("record evaluation: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	_, err = fmt.Fprintln(out, notifier.PlainText(notifier.FormatDailyReport(report)))
	return err
}
