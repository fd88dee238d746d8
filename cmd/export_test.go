package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bucoapprove/mondash/internal/models"
)

func exportTestRecords() []models.Record {
	return []models.Record{
		{ID: "1", Name: "Fix login", Group: "Sprint 1", Board: "Dev", Persons: "Alice", Date: "2024-06-01", Status: "Em Andamento", Urgency: models.UrgencyOverdue},
		{ID: "2", Name: "Ship docs", Group: "Sprint 1", Board: "Dev", Persons: "Bob", Date: "2024-06-20", Status: "Feito"},
	}
}

func TestWriteExport_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeExport(&buf, "json", exportTestRecords())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"name": "Fix login"`)
	assert.Contains(t, buf.String(), `"urgency": "overdue"`)
}

func TestWriteExport_CSVUsesSemicolon(t *testing.T) {
	var buf bytes.Buffer
	err := writeExport(&buf, "csv", exportTestRecords())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID;Name;Group;Board;Persons;Date;Status;Urgency", lines[0])
	assert.Contains(t, lines[1], "Fix login;Sprint 1;Dev;Alice;2024-06-01;Em Andamento;Atrasado")
}

func TestWriteExport_YAML(t *testing.T) {
	var buf bytes.Buffer
	err := writeExport(&buf, "yaml", exportTestRecords())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "name: Fix login")
}

func TestWriteExport_Markdown(t *testing.T) {
	var buf bytes.Buffer
	err := writeExport(&buf, "markdown", exportTestRecords())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "| Fix login | Sprint 1 | Dev | Alice | 2024-06-01 | Em Andamento | Atrasado |")
}

func TestWriteExport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeExport(&buf, "xml", exportTestRecords())
	assert.Error(t, err)
}

func TestExportPath_DirectoryGetsDatedName(t *testing.T) {
	dir := t.TempDir()
	fetchedAt := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	path, err := exportPath(dir, "csv", fetchedAt)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "monday_items_20240615.csv"), path)

	path, err = exportPath(dir, "markdown", fetchedAt)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "monday_items_20240615.md"), path)
}

func TestExportPath_FileKeptVerbatim(t *testing.T) {
	path, err := exportPath("/tmp/out.json", "json", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out.json", path)
}

func TestParseUrgencyFlag(t *testing.T) {
	u, err := parseUrgencyFlag("overdue")
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyOverdue, u)

	u, err = parseUrgencyFlag("NONE")
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyNone, u)

	_, err = parseUrgencyFlag("urgent")
	assert.Error(t, err)
}

func TestParseDateFlag(t *testing.T) {
	tm, err := parseDateFlag("--from", "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), tm)

	tm, err = parseDateFlag("--from", "")
	require.NoError(t, err)
	assert.True(t, tm.IsZero())

	_, err = parseDateFlag("--to", "15/06/2024")
	assert.Error(t, err)
}
