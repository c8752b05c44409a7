package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "closet.pdf")

	if err := ExportPDF(path, buildTestReport(t)); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestWritePDF_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, buildTestReport(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportPDF_EmptyCloset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	err := ExportPDF(path, Report{Title: "Empty"})
	if err == nil {
		t.Fatal("expected error for closet without columns, got nil")
	}
}

func TestExportPDF_WithUnplacedBoards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unplaced.pdf")

	r := buildTestReport(t)
	r.Plan.Unplaced = []model.Panel{
		model.NewPanel("Too Big", 3000, 2500, 1),
		model.NewPanel("Another", 2900, 2900, 2),
	}
	require.NoError(t, ExportPDF(path, r))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestExportPDF_NoStock(t *testing.T) {
	var buf bytes.Buffer
	r := NewReport("No stock", buildTestSnapshot(t), model.DefaultSettings(), nil)
	require.NoError(t, WritePDF(&buf, r))
	assert.NotZero(t, buf.Len())
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{30, 25, 7},
		{10, 15, 6},
	}
	for _, tt := range tests {
		got := labelFontSize(tt.w, tt.h)
		if got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
