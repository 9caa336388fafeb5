// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// importRecords decodes an uploaded participant sheet into rows of cells.
// The registration template handed to organizers is .xlsx; a plain CSV
// export of the same columns works too. The first row is the header.
func importRecords(file io.Reader, filename string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.New("failed to read upload")
		}
		wb, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.New("invalid .xlsx file")
		}
		defer wb.Close()

		rows, err := wb.GetRows(wb.GetSheetName(0))
		if err != nil {
			return nil, errors.New("unreadable .xlsx sheet")
		}
		return rows, nil
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New("invalid CSV file")
	}
	return records, nil
}
