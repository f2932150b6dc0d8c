package output

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"io"
	"testing"

	"tasklist/internal/service"
	"tasklist/internal/testutil"
)

func TestFormatTask_Golden(t *testing.T) {
	tasks := []service.Task{
		{ID: "a", Text: "Buy milk"},
		{ID: "b", Text: "Walk dog", Completed: true},
		{ID: "c", Text: "line one\nline two"},
		{ID: "d", Text: "   "},
	}
	var buf bytes.Buffer
	for i, task := range tasks {
		FormatTask(&buf, i+1, task)
	}
	testutil.GoldenString(t, "list", buf.String())
}

func TestFormatTaskWithID(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskWithID(&buf, 12, service.Task{ID: "65f0", Text: "Buy milk", Completed: true})

	expected := "  12  [x] Buy milk  (65f0)\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatSummary(t *testing.T) {
	var buf bytes.Buffer
	FormatSummary(&buf, []service.Task{{Completed: true}, {}, {}})

	if buf.String() != "2 open, 1 done\n" {
		t.Errorf("unexpected summary %q", buf.String())
	}
}

func TestExport_JSON(t *testing.T) {
	data, err := Export([]service.Task{{ID: "a1", Text: "Buy milk"}}, "JSON")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 1 || got[0]["_id"] != "a1" || got[0]["text"] != "Buy milk" || got[0]["completed"] != false {
		t.Errorf("unexpected export %s", data)
	}
}

func TestExport_JSONEmptyIsArray(t *testing.T) {
	data, err := Export(nil, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("expected empty array, got %q", data)
	}
}

func TestExport_CSV_Golden(t *testing.T) {
	data, err := Export([]service.Task{
		{ID: "a1", Text: "Buy milk"},
		{ID: "b2", Text: "Walk, then run", Completed: true},
	}, FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.Golden(t, "export_csv", data)
}

func TestExport_PDF(t *testing.T) {
	data, err := Export([]service.Task{{ID: "a1", Text: "Buy milk"}}, FormatPDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("expected PDF header, got %q", data[:min(len(data), 8)])
	}
}

func TestExport_PDFEncodesLatin1Text(t *testing.T) {
	data, err := Export([]service.Task{{ID: "a1", Text: "Köp mjölk"}}, FormatPDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := pdfContent(t, data)

	want := []byte("(1. [ ] K\xf6p mj\xf6lk)")
	if !bytes.Contains(content, want) {
		t.Errorf("expected cp1252 text %q in content stream, got %q", want, content)
	}
	if bytes.Contains(content, []byte("Köp")) {
		t.Error("content stream still carries raw UTF-8")
	}
}

// pdfContent returns the inflated bytes of every compressed stream in data.
func pdfContent(t *testing.T, data []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	rest := data
	for {
		i := bytes.Index(rest, []byte("stream\n"))
		if i < 0 {
			break
		}
		rest = rest[i+len("stream\n"):]
		end := bytes.Index(rest, []byte("endstream"))
		if end < 0 {
			break
		}
		zr, err := zlib.NewReader(bytes.NewReader(rest[:end]))
		if err == nil {
			inflated, _ := io.ReadAll(zr)
			out.Write(inflated)
			zr.Close()
		}
		rest = rest[end+len("endstream"):]
	}
	if out.Len() == 0 {
		t.Fatal("no content streams found")
	}
	return out.Bytes()
}

func TestExport_UnknownFormat(t *testing.T) {
	if _, err := Export(nil, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
