package cmd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"salereport/importer"
	"salereport/ledger"

	"github.com/spf13/cobra"
)

func TestParseIDArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "12", want: 12},
		{raw: " 7 ", want: 7},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseIDArg(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseIDArg(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("parseIDArg(%q) = %d, %v; want %d", tt.raw, got, err, tt.want)
		}
	}
}

func TestChangedFlagsOnlyReturnExplicitValues(t *testing.T) {
	t.Parallel()

	var name string
	var value float64
	var category int64
	command := &cobra.Command{Use: "test"}
	command.Flags().StringVar(&name, "name", "", "")
	command.Flags().Float64Var(&value, "value", 0, "")
	command.Flags().Int64Var(&category, "category-id", 0, "")

	if err := command.Flags().Parse([]string{"--name", ""}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	got := changedString(command, "name", name)
	if got == nil || *got != "" {
		t.Fatalf("expected explicit empty name, got %v", got)
	}
	if changedFloat(command, "value", value) != nil {
		t.Fatalf("expected nil for untouched float flag")
	}
	if changedInt64(command, "category-id", category) != nil {
		t.Fatalf("expected nil for untouched int flag")
	}
}

func TestTableRendersOptionalValues(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	tw := newTable(&out, "ID", "GST", "CATEGORY", "AMOUNT")
	tw.row(int64(3), ledger.StringPtr(""), (*int64)(nil), 1180.5)
	if err := tw.flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out.String())
	}
	fields := strings.Fields(lines[1])
	want := []string{"3", "-", "-", "1180.50"}
	if strings.Join(fields, " ") != strings.Join(want, " ") {
		t.Fatalf("expected row %v, got %v", want, fields)
	}
}

func TestPrintImportSummary(t *testing.T) {
	t.Parallel()

	result := &importer.Result{
		BatchID:    "batch-1",
		RowsRead:   3,
		Imported:   1,
		Skipped:    1,
		Duplicates: 1,
		Rows: []importer.RowOutcome{
			{Row: 2, Status: importer.StatusImported, ID: 1},
			{Row: 3, Status: importer.StatusMissingField, Reason: "missing invno"},
			{Row: 4, Status: importer.StatusDuplicate, Reason: "invno INV-1 exists"},
		},
	}

	var brief bytes.Buffer
	printImportSummary(&brief, "company_a", result, false)
	if !strings.Contains(brief.String(), "Rows read: 3, Imported: 1, Skipped: 1, Duplicates: 1") {
		t.Fatalf("unexpected summary %q", brief.String())
	}
	if strings.Contains(brief.String(), "row 3") {
		t.Fatalf("did not expect row details without showRows")
	}

	var detailed bytes.Buffer
	printImportSummary(&detailed, "company_a", result, true)
	if strings.Contains(detailed.String(), "row 2:") {
		t.Fatalf("imported rows should not be listed: %q", detailed.String())
	}
	if !strings.Contains(detailed.String(), "row 3: skipped-missing-field missing invno") ||
		!strings.Contains(detailed.String(), "row 4: skipped-duplicate") {
		t.Fatalf("expected skipped rows listed, got %q", detailed.String())
	}
}

func TestServeAddr(t *testing.T) {
	t.Parallel()

	if got := serveAddr("localhost", 8080); got != "localhost:8080" {
		t.Fatalf("expected localhost:8080, got %q", got)
	}
	if got := serveAddr("", 9090); got != ":9090" {
		t.Fatalf("expected :9090, got %q", got)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	if !newLogger("debug").Enabled(t.Context(), slog.LevelDebug) {
		t.Fatalf("expected debug logger to enable debug records")
	}
	if newLogger("error").Enabled(t.Context(), slog.LevelInfo) {
		t.Fatalf("expected error logger to drop info records")
	}
	if !newLogger("bogus").Enabled(t.Context(), slog.LevelInfo) {
		t.Fatalf("expected unknown level to fall back to info")
	}
}
