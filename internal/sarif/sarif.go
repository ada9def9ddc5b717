// Package sarif renders unresolved requirement references as a SARIF report.
package sarif

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/eclipse-score/srclinker/internal/reconciler"
	"github.com/eclipse-score/srclinker/pkg/shared/files"
)

const (
	ToolName           = "srclinker"
	ToolInformationURI = "https://github.com/eclipse-score/srclinker"

	// UnresolvedRuleID identifies results for references to unknown needs.
	UnresolvedRuleID = "unresolved-need-reference"

	// InvocationProperty is the run property holding the id of the run that produced the report.
	InvocationProperty = "invocationId"
)

// BuildReport creates a SARIF 2.1.0 report with one warning per diagnostic.
func BuildReport(warnings []reconciler.Diagnostic, version string) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, ToolInformationURI)
	if version != "" {
		run.Tool.Driver.Version = &version
	}
	if run.Properties == nil {
		run.Properties = make(map[string]interface{})
	}
	run.Properties[InvocationProperty] = uuid.New().String()

	rule := run.AddRule(UnresolvedRuleID).
		WithDescription("A source file references a need id that does not exist in the documentation.").
		WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "warning"})

	for _, w := range warnings {
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(w.File)).
				WithRegion(sarif.NewRegion().WithStartLine(w.Line)),
		)

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(w.String())).
			WithLevel("warning").
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}

	report.AddRun(run)
	return report, nil
}

// WriteReport pretty-writes report to path, creating parent folders.
func WriteReport(path string, report *sarif.Report) error {
	if err := files.CreateFolderIfNotExists(filepath.Dir(path)); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error writing SARIF report: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := report.PrettyWrite(file); err != nil {
		return fmt.Errorf("error writing SARIF report: %w", err)
	}
	return file.Close()
}

// ReadReport reads a SARIF report from path.
func ReadReport(path string) (*sarif.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report sarif.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse SARIF report %q: %w", path, err)
	}
	return &report, nil
}
