package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"tasklist/internal/service"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// Formats lists the accepted export formats.
var Formats = []string{FormatJSON, FormatCSV, FormatPDF}

// Export renders tasks in the given format.
func Export(tasks []service.Task, format string) ([]byte, error) {
	if tasks == nil {
		tasks = []service.Task{}
	}
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatCSV:
		return exportCSV(tasks)
	case FormatPDF:
		return exportPDF(tasks)
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

func exportCSV(tasks []service.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "text", "completed"})
	for _, t := range tasks {
		_ = w.Write([]string{t.ID, t.Text, strconv.FormatBool(t.Completed)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func exportPDF(tasks []service.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tasks", false)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	// Core fonts are cp1252; runes outside it come out as '?'.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if len(tasks) == 0 {
		pdf.MultiCell(0, 6, "no tasks", "0", "L", false)
	}
	for i, t := range tasks {
		line := fmt.Sprintf("%d. %s %s", i+1, checkbox(t.Completed), normalizeText(t.Text))
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
