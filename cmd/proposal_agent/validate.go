package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-pages/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate payload JSON against the payload schema",
	Long:  "Checks a payload file against the embedded payload schema, or against --schema when given. Exits with status 1 when validation fails.",
	RunE:  runValidate,
}

var (
	validateJSONFile   string
	validateSchemaFile string
)

func init() {
	validateCmd.Flags().StringVar(&validateJSONFile, "json", "", "Path to the JSON file to validate (required)")
	validateCmd.Flags().StringVar(&validateSchemaFile, "schema", "", "Path to a JSON Schema file (defaults to the payload schema)")

	_ = validateCmd.MarkFlagRequired("json")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(validateJSONFile)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	if validateSchemaFile != "" {
		v, loadErr := schemas.LoadValidator(validateSchemaFile)
		if loadErr != nil {
			return loadErr
		}
		err = v.Validate(raw)
	} else {
		err = schemas.ValidatePayload(raw)
	}

	out := cmd.OutOrStdout()
	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		_, _ = fmt.Fprintln(out, "Validation failed")
		_, _ = fmt.Fprint(out, ve.Error())
		return fmt.Errorf("%s: %d schema errors", validateJSONFile, len(ve.Errors))
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, "Validation passed")
	return nil
}
