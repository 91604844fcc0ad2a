package repository

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/brandhealth/internal/domain/model"
)

// decodeXLSX reads the first sheet of a workbook in the tabular layout.
func decodeXLSX(r io.Reader) (*model.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w: %w", ErrMalformedRecord, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets: %w", ErrMalformedRecord)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w: %w", sheets[0], ErrMalformedRecord, err)
	}
	return decodeTable(rows)
}
