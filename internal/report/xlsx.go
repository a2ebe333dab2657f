package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"rfemassist/internal/runner"
)

const sheetName = "Evaluation"

// WriteXLSX writes one header row and one row per metric.
func WriteXLSX(w io.Writer, ms []runner.Metrics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return err
	}

	for i, m := range ms {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			m.Index, m.Filename, m.InputType, m.Success, m.Skipped, m.Attempts,
			m.CorrectMaterial, m.LoadPresent, m.NodeCount, m.LoadCount, m.InferredBy, m.Error,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetName, "B", "B", 32); err != nil {
		return err
	}
	return f.Write(w)
}
