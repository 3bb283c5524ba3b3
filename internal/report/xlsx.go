package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/launchpad/internal/store"
)

const (
	SummarySheet = "Summary"
	HistorySheet = "History"
)

// WriteXLSX saves a workbook with a Summary sheet (one line per row) and a
// History sheet (every recorded launch, oldest first per agent).
func WriteXLSX(path string, rows []Row, stats map[string]*store.AgentStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(HistorySheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summary := [][]any{{"Agent", "Favorite", "Launches", "Successful", "Failed", "Success %", "Avg seconds", "Last launch"}}
	for _, r := range rows {
		last := ""
		if r.LastLaunch != nil {
			last = r.LastLaunch.UTC().Format("2006-01-02T15:04:05Z")
		}
		summary = append(summary, []any{r.Name, r.Favorite, r.Total, r.Succeeded, r.Failed, r.SuccessRate, r.AvgSeconds, last})
	}
	if err := writeRows(f, SummarySheet, summary); err != nil {
		return err
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	history := [][]any{{"Agent", "Timestamp", "Session", "Success", "Duration seconds", "Error", "Session ID"}}
	for _, name := range names {
		for _, h := range stats[name].LaunchHistory {
			history = append(history, []any{name, h.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
				h.SessionType, h.Success, h.DurationSeconds, h.ErrorMessage, h.SessionID})
		}
	}
	if err := writeRows(f, HistorySheet, history); err != nil {
		return err
	}

	for _, sheet := range []string{SummarySheet, HistorySheet} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}
