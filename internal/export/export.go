// Package export writes quiz history as a spreadsheet or a versioned JSON
// document, and reads the JSON form back.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/mod/semver"

	"github.com/abhisek/scholar/internal/history"
)

// Version is the current JSON export format version.
const Version = "v1.0.0"

const (
	historySheet = "History"
	summarySheet = "Summary"
	dateLayout   = "2006-01-02 15:04"
)

// Envelope is the JSON export document.
type Envelope struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	Results    []history.Result `json:"results"`
}

// WriteJSON writes results wrapped in a versioned envelope.
func WriteJSON(w io.Writer, results []history.Result, now time.Time) error {
	if results == nil {
		results = []history.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Envelope{Version: Version, ExportedAt: now.UTC(), Results: results}); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// ReadJSON reads an export. It accepts an envelope with a v1 version or a
// bare array of results as kept in the browser's quizHistory entry.
func ReadJSON(r io.Reader) ([]history.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var results []history.Result
		if err := json.Unmarshal(data, &results); err != nil {
			return nil, fmt.Errorf("decoding history array: %w", err)
		}
		return results, nil
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	if !semver.IsValid(env.Version) {
		return nil, fmt.Errorf("export has invalid version %q", env.Version)
	}
	if major := semver.Major(env.Version); major != semver.Major(Version) {
		return nil, fmt.Errorf("unsupported export version %s (want %s.x)", env.Version, semver.Major(Version))
	}
	if env.Results == nil {
		env.Results = []history.Result{}
	}
	return env.Results, nil
}

// WriteXLSX writes a workbook with a History sheet, one row per result in
// the given order, and a Summary sheet.
func WriteXLSX(w io.Writer, results []history.Result, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	header := []any{"#", "Date", "Topic", "Score", "Total", "Percent", "Missed"}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetCellStyle(historySheet, "A1", "G1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			i + 1,
			r.Time().In(loc).Format(dateLayout),
			r.Topic,
			r.Score,
			r.Total,
			history.Percent(r),
			strings.Join(r.MissedTopics, "\n"),
		}
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(historySheet, "B", "B", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(historySheet, "C", "C", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(historySheet, "G", "G", 60); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	stats := history.Stats(results)
	summary := [][]any{
		{"Attempts", stats.Attempts},
		{"Average Accuracy", stats.AverageAccuracy},
	}
	for _, t := range stats.Topics {
		summary = append(summary, []any{t.Topic, t.AverageAccuracy})
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A2", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 40); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
