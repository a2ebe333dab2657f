// Package report renders evaluation metrics as text, a workbook or a PDF.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"rfemassist/internal/runner"
)

const (
	XLSXName = "reports/evaluation.xlsx"
	PDFName  = "reports/evaluation.pdf"
)

var columns = []string{
	"#", "File", "Input Type", "Success", "Skipped", "Attempts",
	"Correct Material", "Load Present", "Node Count", "Load Count", "Inferred By", "Error",
}

func row(m runner.Metrics) []string {
	return []string{
		strconv.Itoa(m.Index), m.Filename, m.InputType,
		strconv.FormatBool(m.Success), strconv.FormatBool(m.Skipped), strconv.Itoa(m.Attempts),
		strconv.FormatBool(m.CorrectMaterial), strconv.FormatBool(m.LoadPresent),
		strconv.Itoa(m.NodeCount), strconv.Itoa(m.LoadCount), m.InferredBy, m.Error,
	}
}

// Print writes the plain-text evaluation block.
func Print(w io.Writer, ms []runner.Metrics) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "\n--- Evaluation Metrics ---")
	fmt.Fprintf(bw, "Successfully processed: %d/%d inputs\n", runner.SuccessCount(ms), len(ms))
	for i, m := range ms {
		fmt.Fprintf(bw, "\n%d. File: %s\n", i+1, m.Filename)
		fmt.Fprintf(bw, "   Input Type: %s\n", m.InputType)
		fmt.Fprintf(bw, "   attempts: %d\n", m.Attempts)
		if m.Skipped {
			fmt.Fprintln(bw, "   skipped: true")
		}
		fmt.Fprintf(bw, "   correct_material: %t\n", m.CorrectMaterial)
		fmt.Fprintf(bw, "   load_present: %t\n", m.LoadPresent)
		fmt.Fprintf(bw, "   node_count: %d\n", m.NodeCount)
		fmt.Fprintf(bw, "   load_count: %d\n", m.LoadCount)
		if m.InferredBy != "" {
			fmt.Fprintf(bw, "   inferred_by: %s\n", m.InferredBy)
		}
		if m.Error != "" {
			fmt.Fprintf(bw, "   error: %s\n", m.Error)
		}
	}
	fmt.Fprintln(bw, "---")
	return bw.Flush()
}
