package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/injection"
	"github.com/jonathan/proposal-pages/internal/lifecycle"
	"github.com/jonathan/proposal-pages/internal/observability"
	"github.com/jonathan/proposal-pages/internal/schemas"
	"github.com/jonathan/proposal-pages/internal/templates"
	"github.com/jonathan/proposal-pages/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a proposal page from payload JSON",
	Long: `Populates a page layout with a payload and writes the revealed HTML.

The input is either a bare payload ({"proposalData": ...}) or a full editor
message ({"type": "FLASH_TEMPLATE_DATA", "data": ...}). Invalid fields are
dropped and listed.`,
	RunE: runRender,
}

var (
	renderPayloadFile string
	renderTemplate    string
	renderOutputFile  string
	renderVerbose     bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderPayloadFile, "payload", "p", "", "Path to payload or message JSON file (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", string(types.TemplateFlash), "Page layout: flash, prime or minimal")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "proposal.html", "Path to output HTML file")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print a summary of the payload sections")

	_ = renderCmd.MarkFlagRequired("payload")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(renderPayloadFile)
	if err != nil {
		return fmt.Errorf("failed to read payload file: %w", err)
	}
	payload, pruned, err := decodeInput(raw)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	if renderVerbose {
		printer.PrintPayloadSummary(payload)
	}
	printer.PrintPrunedFields(schemas.PrunedFields(pruned))

	name := types.Template(renderTemplate)
	page, err := templates.Load(name)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if renderVerbose {
		if logger, err = observability.NewLogger(); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	}
	injector := injection.New(page.Bindings, logger)
	lifecycle.RenderNow(page.Doc, injector, payload)

	html, err := templates.Render(page.Doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(renderOutputFile, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	printer.PrintRenderResult(string(name), renderOutputFile, len(html), injector.Warnings())
	return nil
}

// decodeInput accepts a bare payload or a message envelope.
func decodeInput(raw []byte) (*types.Payload, []schemas.FieldError, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", schemas.ErrInvalidPayload, err)
	}
	if _, isMessage := probe["type"]; !isMessage {
		return schemas.NormalizePayload(raw)
	}

	msg, pruned, err := schemas.NormalizeMessage(raw)
	if err != nil {
		return nil, pruned, err
	}
	if msg.Type != types.MessageTypeTemplateData {
		return nil, nil, fmt.Errorf("message type %q carries no template data", msg.Type)
	}
	return msg.Data, pruned, nil
}
