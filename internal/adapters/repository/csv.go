package repository

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/okian/brandhealth/internal/domain/model"
)

func decodeCSV(r io.Reader) (*model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w: %w", ErrMalformedRecord, err)
	}
	return decodeTable(rows)
}
