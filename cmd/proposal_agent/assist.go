package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/assist"
	"github.com/jonathan/proposal-pages/internal/llm"
	"github.com/jonathan/proposal-pages/internal/observability"
	"github.com/jonathan/proposal-pages/internal/types"
)

var assistCmd = &cobra.Command{
	Use:   "assist",
	Short: "Draft proposal copy from a short brief",
	Long: `Drafts the introduction, about us, steps, FAQ and footer sections of a
proposal with Gemini and writes them as payload JSON ready for render.

Sections the model cannot produce in time are filled with static copy. Without
GEMINI_API_KEY every section uses static copy.`,
	RunE: runAssist,
}

var (
	assistConfigPath string
	assistCompany    string
	assistClient     string
	assistService    string
	assistAudience   string
	assistTone       string
	assistOutputFile string
	assistVerbose    bool
)

func init() {
	assistCmd.Flags().StringVar(&assistConfigPath, "config", "", "Path to config.json file (model, API key, timeout)")
	assistCmd.Flags().StringVar(&assistCompany, "company", "", "Name of the proposing company (required)")
	assistCmd.Flags().StringVar(&assistClient, "client", "", "Name of the client (required)")
	assistCmd.Flags().StringVar(&assistService, "service", "", "Service being proposed (required)")
	assistCmd.Flags().StringVar(&assistAudience, "audience", "", "Who the client sells to")
	assistCmd.Flags().StringVar(&assistTone, "tone", "", "Tone of the copy: formal, friendly or bold")
	assistCmd.Flags().StringVarP(&assistOutputFile, "out", "o", "", "Path to output payload JSON (defaults to stdout)")
	assistCmd.Flags().BoolVarP(&assistVerbose, "verbose", "v", false, "Print a summary of the drafted sections")

	_ = assistCmd.MarkFlagRequired("company")
	_ = assistCmd.MarkFlagRequired("client")
	_ = assistCmd.MarkFlagRequired("service")
	rootCmd.AddCommand(assistCmd)
}

func runAssist(cmd *cobra.Command, _ []string) error {
	req := types.AssistRequest{
		CompanyName: assistCompany,
		ClientName:  assistClient,
		Service:     assistService,
		Audience:    assistAudience,
		Tone:        assistTone,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid brief: %w", err)
	}

	cfg, err := loadSettings(assistConfigPath)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if assistVerbose {
		if logger, err = observability.NewLogger(); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	}

	ctx := context.Background()
	var client llm.Client
	if cfg.APIKey != "" {
		gemini, err := newModelClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = gemini.Close() }()
		client = gemini
	}

	workflow := assist.NewProposalWorkflow(client,
		assist.WithSectionTimeout(cfg.AssistTimeout()),
		assist.WithLogger(logger),
	)
	draft, err := workflow.Generate(ctx, req)
	if err != nil {
		return err
	}

	payload := &types.Payload{ProposalData: draft.Data}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	if len(draft.Fallbacks) > 0 {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Static copy used for: %s\n", strings.Join(draft.Fallbacks, ", "))
	}
	if assistVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintPayloadSummary(payload)
	}

	if assistOutputFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(assistOutputFile, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Draft written to %s\n", assistOutputFile)
	return nil
}
