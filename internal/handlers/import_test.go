// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestImportRecordsXLSX(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"Nome", "CPF", "E-mail"},
		{"Maria Souza", "123.456.789-09", "maria@example.com"},
		{"João Lima", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	records, err := importRecords(&buf, "participantes.xlsx")
	if err != nil {
		t.Fatalf("importRecords: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows: got %d, want 3", len(records))
	}

	nameIdx, cpfIdx, emailIdx := csvColumns(records[0])
	if nameIdx != 0 || cpfIdx != 1 || emailIdx != 2 {
		t.Errorf("header columns: %d %d %d", nameIdx, cpfIdx, emailIdx)
	}
	if got := normalizeCPF(csvField(records[1], cpfIdx)); got != "12345678909" {
		t.Errorf("cpf cell: %q", got)
	}
	// Trailing empty cells may be trimmed; csvField tolerates short rows.
	if csvField(records[2], emailIdx) != "" {
		t.Errorf("empty email cell: %q", csvField(records[2], emailIdx))
	}
}

func TestImportRecordsCSV(t *testing.T) {
	data := "name,cpf,email\nMaria,12345678909,maria@example.com\n"
	records, err := importRecords(strings.NewReader(data), "lista.csv")
	if err != nil {
		t.Fatalf("importRecords: %v", err)
	}
	if len(records) != 2 || records[1][0] != "Maria" {
		t.Errorf("records: %v", records)
	}
}

func TestImportRecordsRejectsBadXLSX(t *testing.T) {
	if _, err := importRecords(strings.NewReader("not a workbook"), "upload.xlsx"); err == nil {
		t.Error("garbage .xlsx accepted")
	}
}
