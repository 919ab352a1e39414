package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/agent-registration/internal/classify"
	"github.com/jonathan/agent-registration/internal/config"
	"github.com/jonathan/agent-registration/internal/observability"
	"github.com/jonathan/agent-registration/internal/pdf"
	"github.com/jonathan/agent-registration/internal/types"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify the fillable fields of a local PDF form",
	Long:  "Detect the fillable fields of a local state form PDF and classify each one against the agent profile attributes, without touching the database.",
	RunE:  runClassify,
}

var (
	classifyInputFile  string
	classifyOutputFile string
	classifyStateName  string
	classifyVerbose    bool
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyInputFile, "in", "i", "", "Path to the source PDF (required)")
	classifyCmd.Flags().StringVarP(&classifyOutputFile, "out", "o", "", "Path to write the classified form JSON")
	classifyCmd.Flags().StringVar(&classifyStateName, "state", "", "State name recorded in the output")
	classifyCmd.Flags().BoolVarP(&classifyVerbose, "verbose", "v", false, "Print a classification summary")
	_ = classifyCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(classifyInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	engine := pdf.NewEngine()
	pages, err := engine.PageCount(data)
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}
	fields, err := engine.ParseFields(data)
	if err != nil {
		return fmt.Errorf("failed to detect form fields: %w", err)
	}

	cfg := config.Defaults()
	result := classify.Classify(fields, cfg.Consensus())

	form := &types.RegistrationForm{
		StateName:      classifyStateName,
		FileName:       classifyInputFile,
		PageCount:      pages,
		Fieldable:      len(fields) > 0,
		DetectedFields: fields,
		Mappings:       result.Mappings,
		AddendumSlots:  result.Slots,
	}

	if classifyVerbose {
		observability.NewPrinter(os.Stdout).PrintMappingSummary(form)
	}

	if classifyOutputFile != "" {
		jsonBytes, err := json.MarshalIndent(form, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(classifyOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", classifyOutputFile)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Classified %d fields (%d mapped, %d addendum slots)\n",
		len(fields), form.MappedCount(), len(form.AddendumSlots))

	return nil
}
