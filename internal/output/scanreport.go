package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/corvid-labs/antislop/pkg/models"
)

// ScanReport wraps a models.ScanResult so it can render itself through
// the Formatter's formats: one line per finding in text mode
// (path:line:column: [severity] message (pattern_id)), a stable JSON
// schema in JSON mode, and a SARIF 2.1.0 log in SARIF mode.
type ScanReport struct {
	Result models.ScanResult
}

func (r *ScanReport) RenderData() any {
	return jsonScanResult{
		FilesScanned:      r.Result.FilesScanned,
		FilesWithFindings: r.Result.FilesWithFindings,
		TotalFindings:     r.Result.TotalFindings,
		Score:             r.Result.Score,
		BySeverity: jsonCounts{
			Low:      r.Result.CountsBySeverity.Low,
			Medium:   r.Result.CountsBySeverity.Medium,
			High:     r.Result.CountsBySeverity.High,
			Critical: r.Result.CountsBySeverity.Critical,
		},
		Findings: r.Result.Findings,
	}
}

// jsonScanResult is the stable on-the-wire JSON output shape; kept
// distinct from models.ScanResult so the JSON field names and nesting
// stay a fixed contract independent of any internal
// renaming of the Go struct.
type jsonScanResult struct {
	FilesScanned      int              `json:"files_scanned"`
	FilesWithFindings int              `json:"files_with_findings"`
	TotalFindings     int              `json:"total_findings"`
	Score             int              `json:"score"`
	BySeverity        jsonCounts       `json:"by_severity"`
	Findings          []models.Finding `json:"findings"`
}

type jsonCounts struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

func (r *ScanReport) RenderText(w io.Writer, colored bool) error {
	byFile := make(map[string][]models.Finding)
	var order []string
	for _, f := range r.Result.Findings {
		if _, seen := byFile[f.FilePath]; !seen {
			order = append(order, f.FilePath)
		}
		byFile[f.FilePath] = append(byFile[f.FilePath], f)
	}

	for _, path := range order {
		for _, f := range byFile[path] {
			label := fmt.Sprintf("[%s]", f.Severity)
			if colored {
				label = SeverityColor(string(f.Severity), label)
			}
			fmt.Fprintf(w, "%s:%d:%d: %s %s (%s)\n", f.FilePath, f.Line, f.Column, label, f.Message, f.PatternID)
		}
	}

	if len(order) > 0 {
		fmt.Fprintln(w)
	}

	summary := NewTable(
		"Summary",
		[]string{"Severity", "Count"},
		[][]string{
			{"critical", fmt.Sprint(r.Result.CountsBySeverity.Critical)},
			{"high", fmt.Sprint(r.Result.CountsBySeverity.High)},
			{"medium", fmt.Sprint(r.Result.CountsBySeverity.Medium)},
			{"low", fmt.Sprint(r.Result.CountsBySeverity.Low)},
		},
		[]string{"Score", fmt.Sprint(r.Result.Score)},
		nil,
	)
	if err := summary.RenderText(w, colored); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d file(s) scanned, %d with findings, %d total finding(s)\n",
		r.Result.FilesScanned, r.Result.FilesWithFindings, r.Result.TotalFindings)
	return nil
}

func (r *ScanReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "```json")
	if err := json.NewEncoder(w).Encode(r.RenderData()); err != nil {
		return err
	}
	fmt.Fprintln(w, "```")
	return nil
}

// sarifLevel maps a Severity to SARIF's level enum: critical and high
// are errors, medium a warning, low a note.
func sarifLevel(sev models.Severity) string {
	switch sev {
	case models.SeverityCritical, models.SeverityHigh:
		return "error"
	case models.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name string `json:"name"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// RenderSarif writes r as a single-run SARIF 2.1.0 log: one result per
// finding, ruleId set to the pattern id, level mapped from severity.
func (r *ScanReport) RenderSarif(w io.Writer) error {
	results := make([]sarifResult, 0, len(r.Result.Findings))
	for _, f := range r.Result.Findings {
		results = append(results, sarifResult{
			RuleID: f.PatternID,
			Level:  sarifLevel(f.Severity),
			Message: sarifMessage{
				Text: f.Message,
			},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.FilePath},
					Region: sarifRegion{
						StartLine:   f.Line,
						StartColumn: f.Column,
						EndLine:     f.EndLine,
						EndColumn:   f.EndColumn,
					},
				},
			}},
		})
	}

	log := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{Name: "antislop"}},
			Results: results,
		}},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}
