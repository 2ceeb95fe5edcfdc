package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-pages/internal/observability"
	"github.com/jonathan/proposal-pages/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a rendered proposal page as PDF or HTML",
	Long: `Loads a proposal page in headless Chrome, waits until its content is
revealed and saves it as a PDF, or as the revealed HTML with --format html.

Requires Chrome or Chromium to be installed.`,
	RunE: runSnapshot,
}

var (
	snapshotURL       string
	snapshotOutput    string
	snapshotFormat    string
	snapshotLandscape bool
	snapshotTimeout   time.Duration
)

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotURL, "url", "u", "", "URL of the proposal page, e.g. http://localhost:8080/p/<slug> (required)")
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "out", "o", "", "Path to output file (defaults to proposal.pdf or proposal.html)")
	snapshotCmd.Flags().StringVarP(&snapshotFormat, "format", "f", "pdf", "Output format: pdf or html")
	snapshotCmd.Flags().BoolVar(&snapshotLandscape, "landscape", false, "Print in landscape orientation")
	snapshotCmd.Flags().DurationVar(&snapshotTimeout, "timeout", 30*time.Second, "Maximum time to wait for the page")

	_ = snapshotCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	if snapshotFormat != "pdf" && snapshotFormat != "html" {
		return fmt.Errorf("unknown format %q: use pdf or html", snapshotFormat)
	}
	out := snapshotOutput
	if out == "" {
		out = "proposal." + snapshotFormat
	}

	logger, err := observability.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	opts := snapshot.DefaultOptions()
	opts.Timeout = snapshotTimeout
	opts.Landscape = snapshotLandscape
	opts.Logger = logger

	ctx := context.Background()
	var data []byte
	if snapshotFormat == "pdf" {
		data, err = snapshot.PDF(ctx, snapshotURL, opts)
	} else {
		var html string
		html, err = snapshot.HTML(ctx, snapshotURL, opts)
		data = []byte(html)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", out, len(data))
	return nil
}
