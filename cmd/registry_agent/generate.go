package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/agent-registration/internal/assembly"
	"github.com/jonathan/agent-registration/internal/observability"
	"github.com/jonathan/agent-registration/internal/pdf"
	"github.com/jonathan/agent-registration/internal/schemas"
	"github.com/jonathan/agent-registration/internal/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fill a local PDF form for one agent",
	Long:  "Fill a local state form PDF from an agent profile JSON file and a classified form JSON file, merging any addendum PDFs found next to the profile, without touching the database.",
	RunE:  runGenerate,
}

var (
	generateFormFile     string
	generateMetaFile     string
	generateAgentFile    string
	generateAddendumsDir string
	generateOutputFile   string
	generateVerbose      bool
)

func init() {
	generateCmd.Flags().StringVar(&generateFormFile, "form", "", "Path to the source PDF (required)")
	generateCmd.Flags().StringVar(&generateMetaFile, "meta", "", "Path to the classified form JSON, as produced by classify (required)")
	generateCmd.Flags().StringVar(&generateAgentFile, "agent", "", "Path to the agent profile JSON (required)")
	generateCmd.Flags().StringVar(&generateAddendumsDir, "addendums", "", "Directory holding addendum PDFs named <kind>.pdf")
	generateCmd.Flags().StringVarP(&generateOutputFile, "out", "o", "", "Path to write the filled PDF (default: derived from the profile)")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print a generation report")
	_ = generateCmd.MarkFlagRequired("form")
	_ = generateCmd.MarkFlagRequired("meta")
	_ = generateCmd.MarkFlagRequired("agent")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	source, err := os.ReadFile(generateFormFile)
	if err != nil {
		return fmt.Errorf("failed to read form PDF: %w", err)
	}

	metaBytes, err := os.ReadFile(generateMetaFile)
	if err != nil {
		return fmt.Errorf("failed to read form JSON: %w", err)
	}
	var form types.RegistrationForm
	if err := json.Unmarshal(metaBytes, &form); err != nil {
		return fmt.Errorf("failed to parse form JSON: %w", err)
	}

	agent, err := loadAgentProfile(generateAgentFile)
	if err != nil {
		return err
	}
	if err := loadAddendumFiles(agent, form.AddendumSlots); err != nil {
		return err
	}

	assembler := assembly.New(pdf.NewEngine(), nil)
	result, err := assembler.Generate(context.Background(), assembly.Request{
		Form:   &form,
		Agent:  agent,
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	outPath := generateOutputFile
	if outPath == "" {
		outPath = result.FileName
	}
	if err := os.WriteFile(outPath, result.Output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if generateVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintAgentSummary(agent)
		printer.PrintGenerationReport(result)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully generated %s (%d pages, %d fields filled)\n",
		outPath, result.PageCount, result.FieldsFilled)

	return nil
}

// loadAgentProfile reads and validates an agent profile JSON file.
func loadAgentProfile(path string) (*types.Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent profile: %w", err)
	}

	if err := schemas.ValidateAgentProfile(data); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, fmt.Errorf("agent profile does not validate against schema: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate agent profile against schema: %v\n", err)
	}

	var agent types.Agent
	if err := json.Unmarshal(data, &agent); err != nil {
		return nil, fmt.Errorf("failed to parse agent profile: %w", err)
	}
	return &agent, nil
}

// loadAddendumFiles attaches <kind>.pdf files from the addendums directory
// for every slot the form requires. Missing files are left for the assembler
// to report as skipped.
func loadAddendumFiles(agent *types.Agent, slots []types.AddendumKind) error {
	if generateAddendumsDir == "" {
		return nil
	}

	for _, kind := range slots {
		path := filepath.Join(generateAddendumsDir, string(kind)+".pdf")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read addendum %s: %w", path, err)
		}

		if agent.Addendums == nil {
			agent.Addendums = make(map[types.AddendumKind]types.Addendum)
		}
		agent.Addendums[kind] = types.Addendum{Name: filepath.Base(path), Bytes: data}
	}
	return nil
}
