package export

import "errors"

// ErrWorkbook wraps failures while building or writing a workbook.
var ErrWorkbook = errors.New("workbook export failed")
